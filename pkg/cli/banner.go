package cli

import (
	"io"

	"github.com/fatih/color"
)

const bannerText = `
     _______                      ______   __                    __ __
    /       \                    /      \ /  |                  /  /  |
    $$$$$$$  | ______  __     __/$$$$$$  _$$ |_   __    __  ____$$ $$/  ______
    $$ |  $$ |/      \/  \   /  $$ \__$$/ $$   | /  |  /  |/    $$ /  |/      \
    $$ |  $$ /$$$$$$  $$  \ /$$/$$      $$$$$$/  $$ |  $$ /$$$$$$$ $$ /$$$$$$  |
    $$ |  $$ $$    $$ |$$  /$$/  $$$$$$  |$$ | __$$ |  $$ $$ |  $$ $$ $$ |  $$ |
    $$ |__$$ $$$$$$$$/  $$ $$/  /  \__$$ |$$ |/  $$ \__$$ $$ \__$$ $$ $$ \__$$ |
    $$    $$/$$       |  $$$/   $$    $$/ $$  $$/$$    $$/$$    $$ $$ $$    $$/
    $$$$$$$/  $$$$$$$/    $/     $$$$$$/   $$$$/  $$$$$$/  $$$$$$$/$$/ $$$$$$/
`

// 256-color orange
var bannerColor = color.New(38, 5, 208)

func printBanner(w io.Writer) {
	_, _ = bannerColor.Fprint(w, bannerText+"\n")
}
