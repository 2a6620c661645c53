package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/yungbote/coursegen-backend/internal/app"
	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/realtime"
)

type GenerateCmd struct {
	Topic      string `required:"" help:"Course topic"`
	Weeks      int    `default:"4" help:"Total weeks"`
	Hours      int    `default:"5" help:"Study hours per week"`
	Experience int    `default:"0" help:"0 beginner, 1 intermediate, 2 advanced"`
	Style      int    `default:"0" help:"0 visual, 1 auditory, 2 reading/writing, 3 kinesthetic"`
	Motivation int    `default:"0" help:"0 job, 1 college, 2 fun, 3 other"`
	Custom     string `help:"Free-text motivation when --motivation=3"`
}

func (g *GenerateCmd) Run(_ *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(app.WithPublisher(progressPrinter(os.Stdout)))
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Start(ctx); err != nil {
		return err
	}

	id, res, err := a.Services.CourseGen.Run(ctx, course.CourseInput{
		Topic:            g.Topic,
		Experience:       g.Experience,
		TotalWeeks:       g.Weeks,
		HoursPerWeek:     g.Hours,
		LearningStyle:    g.Style,
		Motivation:       g.Motivation,
		CustomMotivation: g.Custom,
	})
	if err != nil {
		if id != "" {
			return fmt.Errorf("request %s: %w", id, err)
		}
		return err
	}
	fmt.Printf("request %s completed: %s\n", id, res.ResultPath)
	return nil
}

// progressPrinter writes one line per progress transition or completion.
func progressPrinter(w io.Writer) realtime.Publisher {
	return realtime.PublisherFunc(func(_ context.Context, msg realtime.SSEMessage) error {
		switch data := msg.Data.(type) {
		case course.ProgressUpdate:
			line := fmt.Sprintf("[%3d%%] %-22s %s", data.Progress, data.Step, data.Status)
			if data.Error != nil {
				line += ": " + *data.Error
			}
			_, err := fmt.Fprintln(w, line)
			return err
		case course.Completion:
			if data.Status == course.CompletionError {
				_, err := fmt.Fprintf(w, "failed at %s: %s\n", data.Step, data.Error)
				return err
			}
			_, err := fmt.Fprintf(w, "done: %s\n", data.ResultPath)
			return err
		}
		return nil
	})
}

type ExportCmd struct {
	Request string `required:"" help:"Request (course) ID"`
	Format  string `enum:"md,html" default:"md" help:"Output format (md or html)"`
	Output  string `short:"o" help:"Write to this file instead of stdout"`
}

func (e *ExportCmd) Run(_ *CLI) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	var out string
	if e.Format == "html" {
		out, err = a.Services.Studio.ExportHTML(ctx, e.Request)
	} else {
		out, err = a.Services.Studio.ExportMarkdown(ctx, e.Request)
	}
	if err != nil {
		return err
	}
	if e.Output == "" {
		_, err = io.WriteString(os.Stdout, out)
		return err
	}
	return os.WriteFile(e.Output, []byte(out), 0o644)
}

type CoursesCmd struct{}

func (c *CoursesCmd) Run(_ *CLI) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	sums, err := a.Services.Studio.Summaries(context.Background())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tWEEKS\tPROGRESS")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\n", s.CourseID, s.Title, s.TotalWeeks, s.CourseProgress)
	}
	return tw.Flush()
}

type ProgressCmd struct {
	Request string `required:"" help:"Request ID"`
	JSON    bool   `help:"Print the raw progress report"`
}

func (p *ProgressCmd) Run(_ *CLI) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Services.CourseGen.Progress(context.Background(), p.Request)
	if err != nil {
		return err
	}
	if p.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	fmt.Printf("%s  %s  %s  %d%%\n", rep.RequestID, rep.Topic, rep.Status, rep.Progress)
	for _, step := range rep.Order {
		rec := rep.Stages[step]
		line := fmt.Sprintf("  %-22s %s", step, rec.Status)
		if rec.Error != nil {
			line += ": " + *rec.Error
		}
		fmt.Println(line)
	}
	if rep.FailedStep != "" {
		fmt.Printf("failed at %s: %s\n", rep.FailedStep, rep.Error)
	}
	return nil
}
