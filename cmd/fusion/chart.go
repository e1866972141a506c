package main

import (
	"fmt"
	"os"

	"github.com/banshee-data/fusion.report/internal/db"
	"github.com/banshee-data/fusion.report/internal/report"
)

func writeChart(path string, run db.Run, estimates []db.Estimate) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	title := fmt.Sprintf("fusion run %s (%s)", run.ID, run.SourceFile)
	return report.WriteTrajectoryHTML(f, title, estimates)
}

func writePlot(path string, run db.Run, estimates []db.Estimate) error {
	title := fmt.Sprintf("fusion run %s (%s)", run.ID, run.SourceFile)
	return report.SaveTrajectoryPNG(path, title, estimates)
}
