// Command libifbridge is the C-callable build of the engine.
//
// Build it as a shared library:
//
//	go build -buildmode=c-shared -o libifbridge.so ./cmd/libifbridge
//
// The generated header declares the exported ifbridge_* functions; see
// exports.go for the contract.
package main

func main() {}
