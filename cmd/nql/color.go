package main

import (
	"github.com/fatih/color"
)

func red(s string) string {
	return color.New(color.FgHiRed).SprintFunc()(s)
}

func green(s string) string {
	return color.New(color.FgHiGreen).SprintFunc()(s)
}

func cyan(s string) string {
	return color.New(color.FgHiCyan).SprintFunc()(s)
}
