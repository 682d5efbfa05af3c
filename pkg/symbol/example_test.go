package symbol_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/scale"
	"github.com/matzehuels/canopy/pkg/symbol"
)

func ExampleGeneratePack() {
	params := botanical.Parameters{
		SpreadCM:     800,
		HeightCM:     1200,
		ScaleBoxCM:   1500,
		CenterCM:     geom.Point{X: 750, Y: 900},
		LeafHabit:    botanical.Evergreen,
		CrownTexture: botanical.Needle,
		CrownDensity: 0.6,
	}
	plant, err := botanical.Validate(botanical.Crown(params), params)
	if err != nil {
		fmt.Println(err)
		return
	}

	pack := symbol.GeneratePack(context.Background(), symbol.PackRequest{
		Plant:         plant,
		Scale:         scale.S100,
		BaseSeed:      42,
		BotanicalName: "Taxus baccata",
	})
	fmt.Println(len(pack.Cells), pack.Succeeded())
	fmt.Println(symbol.FileName(pack.BotanicalName, symbol.Keys()[0].Style, symbol.Keys()[0].Season, pack.Scale))
	// Output:
	// 16 16
	// taxus_baccata__scientific__spring__1-100.svg
}
