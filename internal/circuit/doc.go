// Package circuit models the line-oriented "English" circuit language: the
// keyword catalog, control kinds, the line parser, angle conversion and the
// one-line wire diagram ("Picture") rendering of each instruction.
package circuit
