package main

import "github.com/always1st-js/KPC-ai-survey-dashboard/cmd"

func main() {
	cmd.Execute()
}
