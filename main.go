// landomo discovers QuintoAndar listing IDs by walking viewport queries over
// a city list or a coordinate grid, deduplicates them into a durable
// frontier, then enriches every ID and ships the normalized records to a
// Postgres sink.
package main

import (
	"fmt"
	"os"

	"github.com/landomo-com/landomo-brazil-quintoandar/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
