package main

import "github.com/goplus/vxlpkg/cmd/vxl/internal"

func main() {
	internal.Execute()
}
