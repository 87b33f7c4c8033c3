// Package expand rewrites every DIAG line of an English file into elementary
// gates and echoes all other lines unchanged.
//
// A pass works in four layers:
//   - Classify splits a DIAG's controls into true, false and multiplexed
//     groups.
//   - BuildBitMap lays the groups and the pass's grounded bits out as an
//     embedding bit map.
//   - DiagRewriter turns one DIAG into a decomposition config and hands it
//     to the emit.DiagEngine.
//   - Pass and Run wire the dispatch engine, the rewriter and the output
//     files together for one forward pass.
package expand
