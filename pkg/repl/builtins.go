package repl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stega-cli/stega/pkg/history"
)

// builtinNames are the five REPL commands always present, shadowing
// any registry command of the same name, per spec §4.7.
var builtinNames = []string{"help", "exit", "clear", "history", "debug"}

func isBuiltin(name string) bool {
	for _, n := range builtinNames {
		if n == name {
			return true
		}
	}
	return false
}

// runBuiltin executes a built-in command. shouldExit tells the caller
// to end the REPL loop.
func (r *REPL) runBuiltin(name string, args []string) (shouldExit bool, err error) {
	switch name {
	case "help":
		r.builtinHelp(args)
	case "exit":
		return true, nil
	case "clear":
		fmt.Fprint(r.opts.Out, "\x1b[2J\x1b[H")
	case "history":
		r.builtinHistory(args)
	case "debug":
		r.builtinDebug(args)
	}
	return false, nil
}

func (r *REPL) builtinHelp(args []string) {
	caser := cases.Title(language.English)

	if len(args) > 0 {
		cmd, ok := r.registry.Find(args[0])
		if !ok {
			fmt.Fprintf(r.opts.Out, "unknown command: %s\n", args[0])
			return
		}
		fmt.Fprintf(r.opts.Out, "%s - %s\n", cmd.Name, cmd.Description)
		for _, opt := range cmd.Options {
			required := ""
			if opt.Required {
				required = " (required)"
			}
			fmt.Fprintf(r.opts.Out, "  --%s%s  %s\n", opt.Name, required, opt.Description)
		}
		return
	}

	fmt.Fprintln(r.opts.Out, "Built-in commands:")
	for _, name := range builtinNames {
		fmt.Fprintf(r.opts.Out, "  %s\n", name)
	}

	byCategory := make(map[string][]string)
	for _, cmd := range r.registry.Commands() {
		category := cmd.Category
		if category == "" {
			category = "general"
		}
		byCategory[category] = append(byCategory[category], cmd.Name)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, category := range categories {
		names := byCategory[category]
		sort.Strings(names)

		fmt.Fprintln(r.opts.Out)
		header := caser.String(category)
		if r.opts.NoColor {
			fmt.Fprintln(r.opts.Out, header)
		} else {
			color.New(color.Bold).Fprintln(r.opts.Out, header)
		}
		for _, name := range names {
			fmt.Fprintf(r.opts.Out, "  %s\n", name)
		}
	}
}

func (r *REPL) builtinHistory(args []string) {
	if r.history == nil {
		return
	}
	var entries []history.Entry
	if len(args) > 0 {
		entries = r.history.SearchHistory(strings.Join(args, " "))
	} else {
		entries = r.history.GetHistory(nil)
	}
	for _, entry := range entries {
		status := "ok"
		if !entry.Success {
			status = "error"
		}
		fmt.Fprintf(r.opts.Out, "%s  %-20s %s\n", status, entry.Command, entry.Error)
	}
}

func (r *REPL) builtinDebug(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.opts.Out, "debug: %v\n", r.debug)
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		r.debug = true
	case "off":
		r.debug = false
	}
	fmt.Fprintf(r.opts.Out, "debug: %v\n", r.debug)
}
