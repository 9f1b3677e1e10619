// Chart is a ryijy renderer plugin that writes a knot chart as CSV and a
// plain-text yarn legend.
//
// Build:
//
//	go build -o ryijy-chart .
//
// Usage:
//
//	ryijy render --plugin ./ryijy-chart --out charts/ rug.json
//	ryijy render --plugin ./ryijy-chart --out charts/ --arg empty=- --arg separator=";" rug.json
package main

import "github.com/jmylchreest/ryijy/pkg/plugin"

func main() {
	plugin.Serve(&ChartRenderer{})
}
