package main

// Bismillah
func main() {
	Execute()
}
