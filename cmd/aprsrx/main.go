package main

import (
	aprsrx "github.com/n0call/aprsrx/src"
)

func main() {
	aprsrx.DecodeMain()
}
