package filters

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/raster"
)

const (
	// ProFont is the font the card text is set in.
	ProFont = "Noto Sans JP Regular"
	// ProCardSize is the side of the square card.
	ProCardSize = 128

	proSlogan     = "私がプロだ"
	proMutedColor = "#9EABB6"
	proAvatarMaxW = 35
	proAvatarMaxH = 52
)

var proMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type proText struct {
	text string
	x, y float64
	size float64
	fill string
}

// Pro renders every frame as the avatar of a social post card showing the
// given display name, account and the current time.
var Pro = &filterstructure.Filter{
	Name:      "pro",
	Arguments: []filterstructure.ArgKind{filterstructure.ArgString, filterstructure.ArgString},
	Apply: func(ctx context.Context, env *filterstructure.Env, e emoji.Emoji, args filterstructure.Args) (emoji.Emoji, error) {
		if env == nil || env.Text == nil {
			return nil, fmt.Errorf("pro: no text renderer configured")
		}

		now := env.Clock()
		card, err := proCardSVG(ctx, env.Text, args.StringAt(0), args.StringAt(1), now)
		if err != nil {
			return nil, err
		}
		background, err := raster.RenderSVG(card, ProCardSize, ProCardSize, color.White)
		if err != nil {
			return nil, fmt.Errorf("pro: %w", err)
		}

		return emoji.Framewise(ctx, e, emoji.Lift(func(img *image.RGBA) *image.RGBA {
			return composeProCard(background, img)
		}))
	},
}

// ProClock formats t as the card shows it, e.g. "07:05pm".
func ProClock(t time.Time) string {
	hour := t.Hour()
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	if hour > 12 {
		hour -= 12
	}
	return fmt.Sprintf("%02d:%02d%s", hour, t.Minute(), suffix)
}

// ProDate formats t as the card shows it, e.g. "3 Feb 2024".
func ProDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), proMonths[t.Month()-1], t.Year())
}

func proCardSVG(ctx context.Context, text filterstructure.TextRenderer, name, account string, now time.Time) ([]byte, error) {
	lines := []proText{
		{text: proSlogan, x: 4, y: 80, size: 23, fill: "#000000"},
		{text: name, x: 35, y: 34, size: 19, fill: "#000000"},
		{text: "@" + account, x: 35, y: 52, size: 16, fill: proMutedColor},
		{text: ProClock(now), x: 8, y: 106, size: 16, fill: proMutedColor},
		{text: ProDate(now), x: 32, y: 126, size: 16, fill: proMutedColor},
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		ProCardSize, ProCardSize, ProCardSize, ProCardSize)
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" fill="#FFFFFF"/>`, ProCardSize, ProCardSize)
	for _, line := range lines {
		d, err := text.PathData(ctx, ProFont, line.text, line.x, line.y, line.size)
		if err != nil {
			return nil, fmt.Errorf("pro: failed to render %q: %w", line.text, err)
		}
		if d == "" {
			continue
		}
		fmt.Fprintf(&sb, `<path d="%s" fill="%s"/>`, d, line.fill)
	}
	sb.WriteString(`</svg>`)
	return []byte(sb.String()), nil
}

// composeProCard places img, fitted inside the avatar slot, so that it
// touches the bottom-right corner of the slot.
func composeProCard(background, img *image.RGBA) *image.RGBA {
	dst := raster.Clone(background)

	b := img.Bounds()
	w, h := raster.FitInside(b.Dx(), b.Dy(), proAvatarMaxW, proAvatarMaxH)
	if w == 0 || h == 0 {
		return dst
	}
	avatar := raster.Scale(img, w, h)
	at := image.Rect(proAvatarMaxW-w, proAvatarMaxH-h, proAvatarMaxW, proAvatarMaxH)
	draw.Draw(dst, at, avatar, image.Point{}, draw.Over)
	return dst
}

func init() {
	if err := filterstructure.DefaultRegistry.Register(Pro); err != nil {
		panic(fmt.Sprintf("failed to register pro: %v", err))
	}
}
