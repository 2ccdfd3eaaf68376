// Command sitegen writes the generated site documents to disk and creates
// site profile files.
package main

func main() {
	Execute()
}
