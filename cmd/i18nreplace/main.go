package main

import "github.com/dbsmedya/i18nkit/cmd/i18nreplace/cmd"

func main() {
	cmd.Execute()
}
