package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/importJL/GlyphWrAIte/internal/gateway"
	"github.com/importJL/GlyphWrAIte/internal/settings"
	"github.com/importJL/GlyphWrAIte/internal/ui/components"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change AI settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			ai, err := a.settings.AI(cmd.Context(), resolveUser(cmd))
			if err != nil {
				return err
			}
			printSettings(cmd, ai)
			return nil
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update AI settings; only the given flags change",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := settingsUpdate(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app) error {
			user := resolveUser(cmd)
			if user == "" {
				return fmt.Errorf("no user: pass --user or set %s", EnvUser)
			}
			ai, err := a.settings.UpdateAI(cmd.Context(), user, u)
			if err != nil {
				return err
			}
			printSettings(cmd, ai)
			return nil
		})
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default AI settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			ai, err := a.settings.ResetAI(cmd.Context(), resolveUser(cmd))
			if err != nil {
				return err
			}
			printSettings(cmd, ai)
			return nil
		})
	},
}

// settingsUpdate builds an update from the flags that were set.
func settingsUpdate(cmd *cobra.Command) (settings.AIUpdate, error) {
	f := cmd.Flags()
	var u settings.AIUpdate
	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetBool(name)
		return &v
	}
	u.ModelType = str("model")
	u.VisionModel = str("vision-model")
	u.AudioModel = str("audio-model")
	if p := str("persona"); p != nil {
		persona := gateway.Persona(*p)
		u.Persona = &persona
	}
	u.VideoAssisted = boolean("vision")
	u.AudioAssisted = boolean("audio")
	u.RealTimeCorrection = boolean("realtime")
	if f.Changed("delay") {
		d, _ := f.GetDuration("delay")
		ms := int(d.Milliseconds())
		u.FeedbackDelayMs = &ms
	}
	if u == (settings.AIUpdate{}) {
		return u, fmt.Errorf("nothing to change, see --help")
	}
	return u, nil
}

func printSettings(cmd *cobra.Command, ai settings.AI) {
	p := components.NewPrinter(cmd.OutOrStdout(), false)
	tbl := &components.Table{}
	tbl.AddRow("Text model", ai.ModelType)
	tbl.AddRow("Vision model", ai.VisionModel)
	tbl.AddRow("Audio model", ai.AudioModel)
	tbl.AddRow("Persona", string(ai.Persona))
	tbl.AddRow("Vision scoring", onOff(ai.VideoAssisted))
	tbl.AddRow("Audio assist", onOff(ai.AudioAssisted))
	tbl.AddRow("Real-time correction", onOff(ai.RealTimeCorrection))
	tbl.AddRow("Feedback delay", ai.FeedbackDelay().String())
	p.Print(tbl.Render())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func init() {
	f := settingsSetCmd.Flags()
	f.String("model", "", "Text model id")
	f.String("vision-model", "", "Vision model id (must be on the allow-list)")
	f.String("audio-model", "", "Audio model id")
	f.String("persona", "", "encouraging, strict or neutral")
	f.Bool("vision", false, "Score drawings with the vision model")
	f.Bool("audio", false, "Audio assistance")
	f.Bool("realtime", false, "Real-time correction")
	f.Duration("delay", 0, "Delay before showing the result, e.g. 1s")

	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}
