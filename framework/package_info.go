// Package framework contains the low-level implementation of test harness infrastructure
// that is not specific to the objects service.
//
// The general model is:
//
// 1. The test harness sends requests to the service under test (TestHarness.Send) and gets
// back either a Response, whatever its status code, or a *TransportError.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// pass/fail/skipped results, errors and observed responses.
//
// The domain-specific code that knows what is being tested is responsible for deciding
// which requests to send, in which order, and what the responses must look like.
package framework
