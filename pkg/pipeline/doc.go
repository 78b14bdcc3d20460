// Package pipeline implements the Pipeline Parser & Evaluator: a
// quote-aware `|`-splitting lexer and the fixed set of `.`-prefixed
// string operators, per spec §4.6. Regex-backed operators use the
// standard library regexp package — no example repo vendors an alternate
// regex engine for CLI text transforms, so there is nothing to adopt
// instead.
package pipeline
