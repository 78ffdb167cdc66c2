package main

import "github.com/goplus/libman/cmd/libman/internal"

func main() {
	internal.Execute()
}
