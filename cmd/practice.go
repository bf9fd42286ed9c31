package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/importJL/GlyphWrAIte/internal/characters"
	"github.com/importJL/GlyphWrAIte/internal/llm"
	"github.com/importJL/GlyphWrAIte/internal/session"
	"github.com/importJL/GlyphWrAIte/internal/settings"
	"github.com/importJL/GlyphWrAIte/internal/store"
	"github.com/importJL/GlyphWrAIte/internal/ui/components"
	"github.com/importJL/GlyphWrAIte/internal/ui/theme"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice one character: show tips, submit a drawing, get a score",
	Long: "Selects a character (random when --character is omitted), prints tips,\n" +
		"then submits the drawing given with --image for evaluation. Without an\n" +
		"image the attempt is scored with the basic fallback score.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			return runPractice(cmd, a)
		})
	},
}

func init() {
	f := practiceCmd.Flags()
	f.StringP("language", "l", "", "english, chinese, japanese or korean (default: last used)")
	f.StringP("character", "c", "", "Character to practice (default: random)")
	f.String("level", "", "beginner, intermediate or advanced (default: last used)")
	f.StringP("image", "i", "", "PNG or JPEG of the drawing")
	f.Bool("tips-only", false, "Show tips without submitting")
	f.Bool("no-delay", false, "Show the result without the configured feedback delay")
}

func runPractice(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	user := resolveUser(cmd)
	p := components.NewPrinter(cmd.OutOrStdout(), false)

	prefs := settings.DefaultPreferences()
	if user != "" {
		var err error
		if prefs, err = a.settings.Preferences(ctx, user); err != nil {
			return err
		}
	}
	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = prefs.Language
	}
	level := prefs.Level
	if l, _ := cmd.Flags().GetString("level"); l != "" {
		level = characters.Difficulty(l)
	}
	if !level.Valid() {
		return fmt.Errorf("unknown level %q", level)
	}
	character, _ := cmd.Flags().GetString("character")
	if character == "" {
		info, ok := characters.Random(language, level, nil)
		if !ok {
			return fmt.Errorf("no %s characters for language %q", level, language)
		}
		character = info.Character
	}

	ai, err := a.settings.AI(ctx, user)
	if err != nil {
		return err
	}
	o := a.practice.Get(user)
	target, err := o.Select(language, character, level)
	if err != nil {
		return err
	}
	if user != "" {
		if err := a.settings.SetPreferences(ctx, user, settings.Preferences{Language: language, Level: level}); err != nil {
			a.logger.Sugar().Debugf("preferences not saved: %v", err)
		}
	}

	p.Println(p.Style(theme.Title, fmt.Sprintf("Practice %s (%s, %s)", target.Character, target.Language, target.Level)))
	if target.Info != nil {
		p.Println(p.Style(theme.Hint, target.Info.Definition))
	}
	tips, err := o.LoadTips(ctx, ai)
	if err != nil {
		return err
	}
	printList(p, "Tips", tips)

	if only, _ := cmd.Flags().GetBool("tips-only"); only {
		return nil
	}

	if _, err := o.Begin(); err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("image"); path != "" {
		img, err := readImage(path)
		if err != nil {
			return err
		}
		if err := o.Capture(img); err != nil {
			return err
		}
	}

	out, err := o.Submit(ctx, ai)
	if err != nil {
		return err
	}
	if skip, _ := cmd.Flags().GetBool("no-delay"); !skip {
		if err := wait(ctx, out.FeedbackDelay); err != nil {
			return err
		}
	}
	printOutcome(p, out)
	return nil
}

func printOutcome(p *components.Printer, out *session.Outcome) {
	p.Println(p.Style(theme.Heading, "Result"))
	score := fmt.Sprintf("%d%%", out.Record.Score)
	p.Printf("Score: %s  %s\n", p.Style(theme.ScoreStyle(float64(out.Record.Score)), score),
		p.Style(theme.Hint, scoreSourceLabel(out.Record.ScoreSource)))
	printList(p, "Feedback", out.Narrative)
	p.Println()
	p.Println(out.Summary)
}

func scoreSourceLabel(source string) string {
	if source == store.ScoreSourceVision {
		return "(scored by AI vision)"
	}
	return "(basic score)"
}

func printList(p *components.Printer, title string, items []string) {
	p.Println(p.Style(theme.Heading, title))
	for _, it := range items {
		p.Println("  • " + it)
	}
}

// readImage loads a drawing and sniffs its type.
func readImage(path string) (llm.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return llm.Image{}, fmt.Errorf("read drawing: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return llm.Image{}, fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return llm.Image{MIMEType: mime, Data: data}, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
