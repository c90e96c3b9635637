// Command catalog browses and edits the product catalog and serves its API.
package main

import "github.com/mytheresa/go-catalog/cmd/catalog/cmd"

func main() {
	cmd.Execute()
}
