package exportpdf

import (
	"context"

	"github.com/goliatone/go-cvbuilder/layout"
)

var (
	modernPrimary   = RGB{102, 126, 234}
	modernSecondary = RGB{118, 75, 162}

	professionalSidebar = RGB{30, 41, 59}
	professionalAccent  = RGB{99, 102, 241}
	professionalTrack   = RGB{71, 85, 105}

	creativePink  = RGB{240, 147, 251}
	creativeCoral = RGB{245, 87, 108}

	executiveNavy  = RGB{15, 23, 42}
	executiveGold  = RGB{201, 162, 39}
	executiveTrack = RGB{51, 65, 85}
)

func modernPalette() palette {
	return palette{
		headingFont: "Helvetica",
		heading:     modernPrimary,
		underline:   modernPrimary,
		title:       colorText,
		text:        colorText,
		muted:       colorMuted,
		tagFG:       colorWhite,
		tagBG:       modernPrimary,
		barFill:     modernPrimary,
		barTrack:    colorTrack,
		dotOn:       modernPrimary,
		dotOff:      colorTrack,
	}
}

func drawModern(ctx context.Context, c *Canvas, arr layout.Arrangement) error {
	c.AddPage()
	c.Rect(0, 0, PageWidth, 45, modernPrimary)
	c.Rect(0, 45, PageWidth, 2, modernSecondary)

	textWidth := PageWidth - 2*Margin
	if photo, ok := c.Photo(arr.Header.Photo); ok {
		c.Image(photo, PageWidth-Margin-30, 8, 30, 30)
		textWidth -= 34
	}
	head := c.Column(Margin, textWidth, 10)
	head.Paragraph(arr.Header.FullName, "Helvetica", "B", 24, colorWhite, 0)
	head.Paragraph(arr.Header.Profession, "Helvetica", "", 14, colorWhite, 0)
	head.Paragraph(contactLine(arr.Header), "Helvetica", "", 9, colorWhite, 0)

	p := modernPalette()
	body := c.Column(Margin, PageWidth-2*Margin, 57)
	if err := drawBlocks(ctx, body, concat(arr.Main, arr.Sidebar), p); err != nil {
		return err
	}
	drawFooter(body, arr.Footer, p)
	return nil
}

func drawProfessional(ctx context.Context, c *Canvas, arr layout.Arrangement) error {
	const sidebarWidth = 60.0
	c.decorate = func(c *Canvas, _ int) {
		c.Rect(0, 0, sidebarWidth, PageHeight, professionalSidebar)
	}
	c.AddPage()

	side := c.Column(8, sidebarWidth-16, Margin)
	main := c.Column(sidebarWidth+10, PageWidth-sidebarWidth-10-Margin, Margin)
	if photo, ok := c.Photo(arr.Header.Photo); ok {
		c.Image(photo, (sidebarWidth-30)/2, Margin, 30, 30)
		side.Gap(36)
	}
	sideP := palette{
		headingFont: "Helvetica",
		heading:     colorWhite,
		underline:   professionalAccent,
		title:       colorWhite,
		text:        colorSoftText,
		muted:       colorSoftText,
		tagFG:       colorWhite,
		tagBG:       professionalAccent,
		barFill:     professionalAccent,
		barTrack:    professionalTrack,
		dotOn:       professionalAccent,
		dotOff:      professionalTrack,
	}
	if len(arr.Header.Contacts) > 0 {
		side.Heading("Contact", "Helvetica", 12, colorWhite, professionalAccent)
		for _, contact := range arr.Header.Contacts {
			side.Paragraph(contact.Value, "Helvetica", "", 8.5, colorSoftText, 0)
		}
		side.Gap(4)
	}
	if err := drawBlocks(ctx, side, arr.Sidebar, sideP); err != nil {
		return err
	}
	if len(arr.Footer.Links) > 0 {
		drawItems(side, layout.StyleLinks, arr.Footer.Links, sideP)
	}

	main.Paragraph(arr.Header.FullName, "Helvetica", "B", 22, professionalSidebar, 0)
	main.Paragraph(arr.Header.Profession, "Helvetica", "", 13, professionalAccent, 0)
	main.Gap(2)
	main.Rule(professionalAccent, 0.8)
	main.Gap(4)
	mainP := palette{
		headingFont: "Helvetica",
		heading:     professionalSidebar,
		underline:   professionalAccent,
		title:       professionalSidebar,
		text:        colorText,
		muted:       colorMuted,
		tagFG:       colorWhite,
		tagBG:       professionalAccent,
		barFill:     professionalAccent,
		barTrack:    colorTrack,
		dotOn:       professionalAccent,
		dotOff:      colorTrack,
	}
	if err := drawBlocks(ctx, main, arr.Main, mainP); err != nil {
		return err
	}
	drawFooter(main, layout.Footer{Signature: arr.Footer.Signature}, mainP)
	return nil
}

func drawCreative(ctx context.Context, c *Canvas, arr layout.Arrangement) error {
	c.AddPage()
	c.Rect(0, 0, PageWidth/2, 52, creativePink)
	c.Rect(PageWidth/2, 0, PageWidth/2, 52, creativeCoral)

	top := 14.0
	if photo, ok := c.Photo(arr.Header.Photo); ok {
		c.Image(photo, Margin, 11, 30, 30)
	}
	centered(c, arr.Header.FullName, top, "Helvetica", "B", 26, colorWhite)
	centered(c, arr.Header.Profession, top+11, "Helvetica", "", 14, colorWhite)
	centered(c, contactLine(arr.Header), top+20, "Helvetica", "", 9, colorWhite)

	p := palette{
		headingFont: "Helvetica",
		heading:     creativeCoral,
		underline:   creativePink,
		title:       colorText,
		text:        colorText,
		muted:       colorMuted,
		tagFG:       colorWhite,
		tagBG:       creativeCoral,
		barFill:     creativeCoral,
		barTrack:    colorTrack,
		dotOn:       creativeCoral,
		dotOff:      colorTrack,
	}
	body := c.Column(Margin, PageWidth-2*Margin, 62)
	if err := drawBlocks(ctx, body, concat(arr.Main, arr.Sidebar), p); err != nil {
		return err
	}
	drawFooter(body, arr.Footer, p)
	return nil
}

func drawExecutive(ctx context.Context, c *Canvas, arr layout.Arrangement) error {
	const (
		panelX     = 140.0
		headerLine = 46.0
	)
	c.decorate = func(c *Canvas, page int) {
		top := 0.0
		if page == 1 {
			top = headerLine + 1
		}
		c.Rect(panelX, top, PageWidth-panelX, PageHeight-top, executiveNavy)
	}
	c.AddPage()

	width := PageWidth - 2*Margin
	if photo, ok := c.Photo(arr.Header.Photo); ok {
		c.Image(photo, PageWidth-Margin-25, 14, 25, 25)
		width -= 29
	}
	head := c.Column(Margin, width, 14)
	head.Paragraph(arr.Header.FullName, "Times", "B", 26, executiveNavy, 0)
	head.Paragraph(arr.Header.Profession, "Times", "I", 13, executiveGold, 0)
	head.Paragraph(contactLine(arr.Header), "Helvetica", "", 8.5, colorMuted, 0)
	c.stroke(executiveNavy, 1)
	c.pdf.Line(0, headerLine, PageWidth, headerLine)

	mainP := palette{
		headingFont: "Times",
		heading:     executiveNavy,
		underline:   executiveGold,
		title:       executiveNavy,
		text:        colorText,
		muted:       colorMuted,
		tagFG:       colorWhite,
		tagBG:       executiveNavy,
		barFill:     executiveGold,
		barTrack:    colorTrack,
		dotOn:       executiveGold,
		dotOff:      colorTrack,
	}
	main := c.Column(Margin, panelX-Margin-8, headerLine+9)
	side := c.Column(panelX+6, PageWidth-panelX-12, headerLine+9)
	if err := drawBlocks(ctx, main, arr.Main, mainP); err != nil {
		return err
	}
	drawFooter(main, arr.Footer, mainP)

	sideP := palette{
		headingFont: "Times",
		heading:     colorWhite,
		underline:   executiveGold,
		title:       colorWhite,
		text:        colorSoftText,
		muted:       colorSoftText,
		tagFG:       executiveNavy,
		tagBG:       executiveGold,
		barFill:     executiveGold,
		barTrack:    executiveTrack,
		dotOn:       executiveGold,
		dotOff:      executiveTrack,
	}
	return drawBlocks(ctx, side, arr.Sidebar, sideP)
}

// centered prints one line centered on the page, truncated to the margins.
func centered(c *Canvas, text string, y float64, family, style string, size float64, color RGB) {
	if text == "" {
		return
	}
	c.font(family, style, size, color)
	text = truncate(text, PageWidth-2*Margin, c.Measure)
	x := (PageWidth - c.Measure(text)) / 2
	c.pdf.Text(x, y+lineHeight(size)*0.7, c.tr(text))
	c.track(y + lineHeight(size))
}

func concat(groups ...[]layout.Block) []layout.Block {
	var out []layout.Block
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}
