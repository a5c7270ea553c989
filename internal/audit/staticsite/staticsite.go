package staticsite

import "github.com/farcloser/replmend/internal/types"

// Detect checks whether a project that looks like a static site has an index.html. Only a file
// named exactly index.html counts, at any depth.
func Detect(inv *types.Inventory, facts types.Fact) *types.StaticSiteDetection {
	_, hasIndex := inv.IndexHTML()

	return &types.StaticSiteDetection{
		Applicable: !facts.Any(types.FactsPythonWeb | types.FactNode),
		HTMLFiles:  len(inv.HTMLFiles),
		HasIndex:   hasIndex,
	}
}
