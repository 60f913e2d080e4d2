// Command chugctl inspects and exercises the bundled chugins inside an
// in-process ChucK host.
package main

func main() {
	execute()
}
