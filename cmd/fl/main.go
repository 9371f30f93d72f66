package main

import "fateline/cmd/fl/root"

func main() {
	root.Execute()
}
