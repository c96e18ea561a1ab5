// Command qrstyle is a thin CLI wrapper over the qrstyle library. It is
// ambient scaffolding, not part of the library's public contract: spec.md
// §1 names CLI wrappers as out of scope for the core, but the corpus's own
// repos all ship a small cmd/ on top of their library, so one is included
// here too.
package main

func main() {
	Execute()
}
