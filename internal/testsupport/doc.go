// Package testsupport provides helpers shared by tests: temp-rooted configs,
// miniature movie corpora, and throwaway history stores.
package testsupport
