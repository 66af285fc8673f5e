package render

import (
	"fmt"
	"io"

	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/jedib0t/go-pretty/v6/table"
)

// AssetsRenderer renders managed assets
type AssetsRenderer struct {
	out  io.Writer
	json bool
}

// NewAssetsRenderer creates a new assets renderer
func NewAssetsRenderer(out io.Writer, json bool) *AssetsRenderer {
	return &AssetsRenderer{out: out, json: json}
}

// RenderAsset renders an asset after a change
func (r *AssetsRenderer) RenderAsset(msg string, asset *models.Asset) error {
	if r.json {
		return WriteJSON(r.out, asset)
	}
	fmt.Fprintln(r.out, FormatSuccess(msg))
	field(r.out, "Asset", fmt.Sprintf("%s (%s)", asset.Symbol, addressStyle.Sprint(asset.ID.Hex())))
	field(r.out, "Custodian", asset.Custodian.Hex())
	field(r.out, "Shares", amount(asset.TotalShares))
	return nil
}

// RenderList renders every asset
func (r *AssetsRenderer) RenderList(assets []*models.Asset) error {
	if r.json {
		return WriteJSON(r.out, assets)
	}
	if len(assets) == 0 {
		fmt.Fprintln(r.out, "No assets registered")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"SYMBOL", "NAME", "ADDRESS", "CUSTODIAN", "SHARES", "HOLDERS"})
	for _, a := range assets {
		t.AppendRow(table.Row{
			labelStyle.Sprint(a.Symbol),
			a.Name,
			addressStyle.Sprint(a.ID.Hex()),
			a.Custodian.Hex(),
			amount(a.TotalShares),
			len(a.Shares),
		})
	}
	t.Render()
	return nil
}
