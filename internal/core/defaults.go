package core

// builtinDefaultEmojis maps common standard emoji names to the image files
// of the default emoji set. Configured defaultEmojis extend or override it.
var builtinDefaultEmojis = map[string]string{
	"+1":               "1f44d.png",
	"-1":               "1f44e.png",
	"angry":            "1f620.png",
	"blush":            "1f60a.png",
	"cry":              "1f622.png",
	"eyes":             "1f440.png",
	"fire":             "1f525.png",
	"fish":             "1f41f.png",
	"grinning":         "1f600.png",
	"heart":            "2764-fe0f.png",
	"innocent":         "1f607.png",
	"joy":              "1f602.png",
	"laughing":         "1f606.png",
	"ok_hand":          "1f44c.png",
	"pray":             "1f64f.png",
	"rocket":           "1f680.png",
	"scream":           "1f631.png",
	"sob":              "1f62d.png",
	"smile":            "1f604.png",
	"smiley":           "1f603.png",
	"sunglasses":       "1f60e.png",
	"sushi":            "1f363.png",
	"tada":             "1f389.png",
	"thinking_face":    "1f914.png",
	"upside_down_face": "1f643.png",
	"wave":             "1f44b.png",
	"wink":             "1f609.png",
}

func defaultEmojiFiles(configured map[string]string) map[string]string {
	files := make(map[string]string, len(builtinDefaultEmojis)+len(configured))
	for name, file := range builtinDefaultEmojis {
		files[name] = file
	}
	for name, file := range configured {
		files[name] = file
	}
	return files
}
