/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import "based/cmd"

func main() {
	cmd.Execute()
}
