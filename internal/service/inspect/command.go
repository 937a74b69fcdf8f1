package inspect

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oshokin/ae-conditions/internal/domain/catalog"
	"github.com/oshokin/ae-conditions/internal/logger"
	"github.com/oshokin/ae-conditions/internal/service/common"
)

// Options controls the inspect commands.
type Options struct {
	// Output receives the report, stdout when nil.
	Output io.Writer
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
}

// Validate builds the catalog described by the settings file and reports its size.
func Validate(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "validate")

	_, c, err := common.LoadCatalog(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	snapshot := c.Snapshot()

	report := fmt.Sprintf("catalog is valid: %d categories, %d definitions, %d areas, %d sources, %d conditions\n",
		len(snapshot.Categories),
		len(snapshot.Definitions),
		len(snapshot.Areas),
		len(snapshot.Sources),
		len(snapshot.Conditions))

	return write(opts.Output, report)
}

// Topology prints the area tree with the sources of every area and the conditions of every source.
func Topology(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "topology")

	_, c, err := common.LoadCatalog(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	return write(opts.Output, Render(c))
}

// Render returns the topology tree of c as indented text.
// Areas are printed with their full dotted path.
func Render(c *catalog.Catalog) string {
	var b strings.Builder

	b.WriteString("root\n")
	renderArea(&b, c, catalog.RootArea, 1)

	return b.String()
}

func renderArea(b *strings.Builder, c *catalog.Catalog, areaID catalog.ID, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, childID := range c.ChildrenOf(areaID) {
		area, _ := c.Area(childID)

		fmt.Fprintf(b, "%sarea %#x %s\n", indent, area.ID, c.AreaPath(area.ID))
		renderArea(b, c, childID, depth+1)
	}

	for _, sourceID := range c.SourcesOf(areaID) {
		source, _ := c.Source(sourceID)

		fmt.Fprintf(b, "%ssource %#x %s", indent, source.ID, source.Name)

		if source.Shared {
			b.WriteString(" [shared]")
		}

		b.WriteString("\n")

		for _, conditionID := range c.ConditionsOf(sourceID) {
			binding, _ := c.Binding(conditionID)

			fmt.Fprintf(b, "%s  condition %#x %s (%s, %s)\n",
				indent,
				conditionID,
				binding.Definition.Name,
				binding.Definition.Kind,
				binding.Category.Description)
		}
	}
}

func write(out io.Writer, report string) error {
	if out == nil {
		out = os.Stdout
	}

	if _, err := io.WriteString(out, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
