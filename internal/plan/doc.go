// Package plan builds the execution plan consumed by the mapping engine.
//
// Plan construction:
//  1. Infer alignments between every pair of attributes
//  2. Order the classes so that link targets are written first; links that
//     close a cycle are deferred (buffered)
//  3. For each class:
//     - Choose the subject attribute that drives the record sweep
//     - Choose the identity scheme (blank, internal id, external id)
//     - Attach the alignment from the subject to every property
//  4. Mark link targets that can drop records, so links to them are checked
package plan
