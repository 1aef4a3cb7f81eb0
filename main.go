// Command cfarm is a terminal client for the Charity Farm tap-to-earn game.
package main

import "github.com/theirongolddev/cfarm/cmd"

func main() {
	cmd.Execute()
}
