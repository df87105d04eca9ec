package main

import "github.com/luisolivares/api-rest-security-jwt/cmd/authapi/cmd"

func main() {
	cmd.Execute()
}
