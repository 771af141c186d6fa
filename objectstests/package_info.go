// Package objectstests contains the contract tests for the /objects service and their supporting
// API: the scenario runner, the test scope T, and the lifecycle and listing scenarios.
//
// Infrastructure that is not specific to the objects service, such as sending requests and
// collecting results, is in the lower-level framework package.
package objectstests
