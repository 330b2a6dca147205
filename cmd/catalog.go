package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/freshmix/internal/models"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List fruits, sizes, liquids and presets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()

		tw := newTable(w)
		fmt.Fprintln(tw, "FRUIT\tPRICE\tCOLOR\t")
		for _, ing := range models.Ingredients() {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", ing.ID, ing.Price, ing.Color, swatch(ing.Color))
		}
		tw.Flush()

		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "SIZE\tVOLUME\tPRICE\tMAX FRUITS")
		for _, size := range models.Sizes() {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", size.ID, size.Label, size.Price, size.MaxIngredients)
		}
		tw.Flush()

		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "LIQUID\tPRICE")
		for _, liquid := range models.Liquids() {
			fmt.Fprintf(tw, "%s\t%d\n", liquid.ID, liquid.Price)
		}
		fmt.Fprintf(tw, "ice\t%d\n", models.IcePrice)
		tw.Flush()

		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "PRESET\tFRUITS")
		for _, name := range models.PresetNames() {
			ids, _ := models.LookupPreset(name)
			fmt.Fprintf(tw, "%s\t%s\n", name, joinIDs(ids))
		}
		tw.Flush()
	},
}

var menuCategory string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List the signature juices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		valid := false
		for _, c := range models.MenuCategories() {
			if c == menuCategory {
				valid = true
			}
		}
		if !valid {
			return fmt.Errorf("unknown category %q, choose one of: %s", menuCategory, strings.Join(models.MenuCategories(), ", "))
		}

		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintln(tw, "ITEM\tCATEGORY\tPRICE\tKCAL\tFRUITS\tLIQUID\t")
		for _, item := range models.Menu(menuCategory) {
			var tags []string
			if item.Popular {
				tags = append(tags, "popular")
			}
			if item.IsNew {
				tags = append(tags, "new")
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
				item.ID, item.Category, item.Price, item.Calories, joinIDs(item.Ingredients), item.Liquid, strings.Join(tags, ","))
		}
		return tw.Flush()
	},
}

func joinIDs(ids []models.IngredientID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func init() {
	menuCmd.Flags().StringVar(&menuCategory, "category", models.MenuCategoryAll, "Filter by category: "+strings.Join(models.MenuCategories(), ", "))
	rootCmd.AddCommand(catalogCmd, menuCmd)
}
