package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/chrisdamba/freshmix/internal/mixer"
	"github.com/chrisdamba/freshmix/internal/models"
)

var messages = map[string]string{
	models.MessageAddedToMix:     "added to your mix",
	models.MessageRemovedFromMix: "removed from your mix",
	models.MessageMaxFruits:      "your bottle is full, pick a larger size to add more",
}

func describeOutcome(subject string, o mixer.Outcome) string {
	if o.Status == mixer.StatusUnknownIngredient {
		return fmt.Sprintf("%s: not in the catalog", subject)
	}
	if text, ok := messages[o.MessageKey]; ok {
		return fmt.Sprintf("%s: %s", subject, text)
	}
	return fmt.Sprintf("%s: %s", subject, o.Status)
}

// swatch renders a block in the given color on truecolor terminals.
func swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return ""
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm    \x1b[0m", r, g, b)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printMix(w io.Writer, store *mixer.Store) {
	size, _ := models.LookupSize(store.Size())
	items := store.Ingredients()

	fmt.Fprintf(w, "Size:   %s (%d/%d fruits)\n", size.Label, len(items), size.MaxIngredients)
	fmt.Fprintf(w, "Liquid: %s\n", store.Liquid())
	fmt.Fprintf(w, "Ice:    %t\n", store.Ice())
	color := store.BlendedColor()
	fmt.Fprintf(w, "Color:  %s %s\n", color, swatch(color))

	if len(items) == 0 {
		fmt.Fprintln(w, "\nYour mix is empty.")
	} else {
		fmt.Fprintln(w)
		tw := newTable(w)
		fmt.Fprintln(tw, "TOKEN\tFRUIT\tPRICE")
		for _, item := range items {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", item.Token, item.ID, item.Price)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	printPricing(w, store.CalculateTotal())
}

func printPricing(w io.Writer, p models.PriceBreakdown) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Fruits\t%d MAD\n", p.IngredientsTotal)
	fmt.Fprintf(tw, "Bottle\t%d MAD\n", p.ContainerPrice)
	fmt.Fprintf(tw, "Liquid\t%d MAD\n", p.LiquidPrice)
	fmt.Fprintf(tw, "Ice\t%d MAD\n", p.IcePrice)
	fmt.Fprintf(tw, "Total\t%d MAD\n", p.Total)
	tw.Flush()
}

func printOrder(w io.Writer, o *models.OrderSnapshot) {
	ids := make([]string, len(o.Items))
	for i, item := range o.Items {
		ids[i] = string(item.ID)
	}
	fmt.Fprintf(w, "Order %s (%s)\n", o.OrderNumber, o.Status)
	fmt.Fprintf(w, "  %s, %s, %s\n", o.Customer.Name, o.Customer.Address, o.Customer.City)
	fmt.Fprintf(w, "  %s %s with %s, ice %t\n", o.Size, strings.Join(ids, "+"), o.Liquid, o.Ice)
	fmt.Fprintf(w, "  total %d MAD, paid by %s\n", o.Total, o.Customer.PaymentMethod)
}
