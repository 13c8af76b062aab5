package main

import "github.com/dbsmedya/i18nkit/cmd/chncheck/cmd"

func main() {
	cmd.Execute()
}
