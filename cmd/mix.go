package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/freshmix/internal/models"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current mix, its price and blended color",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printMix(cmd.OutOrStdout(), a.store)
	},
}

var addCmd = &cobra.Command{
	Use:   "add <fruit>...",
	Short: "Add one unit of each named fruit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, arg := range args {
			outcome, err := a.store.Add(cmd.Context(), models.IngredientID(strings.ToLower(arg)))
			if err != nil {
				return err
			}
			fmt.Fprintln(w, describeOutcome(arg, outcome))
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <token>",
	Short: "Remove one fruit instance by its token (see show)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !a.store.Has(args[0]) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no such item in your mix\n", args[0])
			return nil
		}
		outcome, err := a.store.Remove(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), describeOutcome(args[0], outcome))
		return nil
	},
}

var sizeCmd = &cobra.Command{
	Use:   "size <small|medium|large>",
	Short: "Pick the bottle size; extra fruits beyond its capacity are dropped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := models.ParseSizeID(args[0])
		if err != nil {
			return err
		}
		if err := a.store.SetSize(cmd.Context(), id); err != nil {
			return err
		}
		printMix(cmd.OutOrStdout(), a.store)
		return nil
	},
}

var liquidCmd = &cobra.Command{
	Use:   "liquid <water|milk|orange>",
	Short: "Pick the base liquid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := models.ParseLiquidID(args[0])
		if err != nil {
			return err
		}
		return a.store.SetLiquid(cmd.Context(), id)
	},
}

var iceCmd = &cobra.Command{
	Use:       "ice [on|off]",
	Short:     "Toggle ice, or set it explicitly",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if len(args) == 0 {
			err = a.store.ToggleIce(cmd.Context())
		} else {
			err = a.store.SetIce(cmd.Context(), args[0] == "on")
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ice: %t\n", a.store.Ice())
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the mix to an empty medium bottle of water",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return a.store.Clear(cmd.Context())
	},
}

var presetCmd = &cobra.Command{
	Use:   "preset <name>",
	Short: "Replace the fruits with a named preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := a.store.LoadPreset(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !loaded {
			return fmt.Errorf("unknown preset %q, choose one of: %s", args[0], strings.Join(models.PresetNames(), ", "))
		}
		printMix(cmd.OutOrStdout(), a.store)
		return nil
	},
}

var orderMenuCmd = &cobra.Command{
	Use:   "order-menu <item>",
	Short: "Load a signature juice from the menu into the mixer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := a.store.LoadMenuItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		printMix(cmd.OutOrStdout(), a.store)
		return nil
	},
}

var languageCmd = &cobra.Command{
	Use:   "language [en|fr|ar|es]",
	Short: "Show or set the display language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			lang, err := models.ParseLanguage(args[0])
			if err != nil {
				return err
			}
			if err := a.store.SetLanguage(cmd.Context(), lang); err != nil {
				return err
			}
		}
		lang := a.store.Language()
		direction := "ltr"
		if lang.RightToLeft() {
			direction = "rtl"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "language: %s (%s)\n", lang, direction)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd, addCmd, removeCmd, sizeCmd, liquidCmd, iceCmd,
		clearCmd, presetCmd, orderMenuCmd, languageCmd)
}
