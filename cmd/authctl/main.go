package main

import "github.com/luisolivares/api-rest-security-jwt/cmd/authctl/cmd"

func main() {
	cmd.Execute()
}
