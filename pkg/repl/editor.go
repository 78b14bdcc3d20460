package repl

// lineEditor tracks the live line buffer, cursor position, and
// undo/redo stacks of spec §4.7's "Line editor state". cursorPos and
// all offsets are in runes (code points), consistently, per the
// section's "must be consistent" requirement.
type lineEditor struct {
	currentLine []rune
	cursorPos   int
	undoStack   [][]rune
	redoStack   [][]rune
}

func newLineEditor() *lineEditor {
	return &lineEditor{}
}

func (e *lineEditor) String() string {
	return string(e.currentLine)
}

func (e *lineEditor) reset() {
	e.currentLine = nil
	e.cursorPos = 0
	e.undoStack = nil
	e.redoStack = nil
}

// snapshot pushes the current buffer onto undoStack and clears redoStack,
// called before any mutation.
func (e *lineEditor) snapshot() {
	buf := make([]rune, len(e.currentLine))
	copy(buf, e.currentLine)
	e.undoStack = append(e.undoStack, buf)
	e.redoStack = nil
}

func (e *lineEditor) insert(r rune) {
	e.snapshot()
	line := make([]rune, 0, len(e.currentLine)+1)
	line = append(line, e.currentLine[:e.cursorPos]...)
	line = append(line, r)
	line = append(line, e.currentLine[e.cursorPos:]...)
	e.currentLine = line
	e.cursorPos++
}

// backspace deletes the rune left of the cursor. Reports whether
// anything was deleted.
func (e *lineEditor) backspace() bool {
	if e.cursorPos == 0 {
		return false
	}
	e.snapshot()
	e.currentLine = append(e.currentLine[:e.cursorPos-1], e.currentLine[e.cursorPos:]...)
	e.cursorPos--
	return true
}

func (e *lineEditor) moveLeft() {
	if e.cursorPos > 0 {
		e.cursorPos--
	}
}

func (e *lineEditor) moveRight() {
	if e.cursorPos < len(e.currentLine) {
		e.cursorPos++
	}
}

// replaceLine overwrites the buffer wholesale (used by history
// navigation and completion), placing the cursor at the end.
func (e *lineEditor) replaceLine(s string) {
	e.snapshot()
	e.currentLine = []rune(s)
	e.cursorPos = len(e.currentLine)
}

func (e *lineEditor) undo() bool {
	if len(e.undoStack) == 0 {
		return false
	}
	n := len(e.undoStack) - 1
	prev := e.undoStack[n]
	e.undoStack = e.undoStack[:n]

	redoBuf := make([]rune, len(e.currentLine))
	copy(redoBuf, e.currentLine)
	e.redoStack = append(e.redoStack, redoBuf)

	e.currentLine = prev
	if e.cursorPos > len(e.currentLine) {
		e.cursorPos = len(e.currentLine)
	}
	return true
}

func (e *lineEditor) redo() bool {
	if len(e.redoStack) == 0 {
		return false
	}
	n := len(e.redoStack) - 1
	next := e.redoStack[n]
	e.redoStack = e.redoStack[:n]

	undoBuf := make([]rune, len(e.currentLine))
	copy(undoBuf, e.currentLine)
	e.undoStack = append(e.undoStack, undoBuf)

	e.currentLine = next
	if e.cursorPos > len(e.currentLine) {
		e.cursorPos = len(e.currentLine)
	}
	return true
}

// replaceWord swaps currentLine[start:cursorPos] for replacement,
// leaving the cursor just after the inserted text. Used by tab
// completion.
func (e *lineEditor) replaceWord(start int, replacement string) {
	e.snapshot()
	repl := []rune(replacement)
	line := make([]rune, 0, start+len(repl)+len(e.currentLine)-e.cursorPos)
	line = append(line, e.currentLine[:start]...)
	line = append(line, repl...)
	line = append(line, e.currentLine[e.cursorPos:]...)
	e.currentLine = line
	e.cursorPos = start + len(repl)
}

// currentWord returns the whitespace-delimited word ending at the
// cursor, and the rune offset at which it starts — used by tab
// completion.
func (e *lineEditor) currentWord() (word string, start int) {
	start = e.cursorPos
	for start > 0 && e.currentLine[start-1] != ' ' {
		start--
	}
	return string(e.currentLine[start:e.cursorPos]), start
}
