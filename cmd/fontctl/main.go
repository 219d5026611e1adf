// Command fontctl inspects, verifies, builds and renders glyph bundles.
package main

func main() {
	execute()
}
