package main

import "github.com/lu-zhengda/escalytics/internal/cli"

func main() {
	cli.Execute()
}
