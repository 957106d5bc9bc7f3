package content

// namedEntities resolves HTML character references the XML parser does not
// know about. Books exported from HTML tooling use these liberally; the set
// below covers what shows up in real-world chapter files. The five XML
// built-ins are handled by the parser itself.
var namedEntities = map[string]string{
	"nbsp":   " ",
	"ensp":   " ",
	"emsp":   " ",
	"thinsp": " ",
	"shy":    "\u00ad",
	"zwnj":   "\u200c",
	"zwj":    "\u200d",

	"ndash":  "–",
	"mdash":  "—",
	"horbar": "―",
	"hellip": "…",
	"middot": "·",
	"bull":   "•",
	"dagger": "†",
	"Dagger": "‡",
	"sect":   "§",
	"para":   "¶",

	"lsquo": "‘",
	"rsquo": "’",
	"sbquo": "‚",
	"ldquo": "“",
	"rdquo": "”",
	"bdquo": "„",
	"laquo": "«",
	"raquo": "»",
	"prime": "′",
	"Prime": "″",

	"copy":   "©",
	"reg":    "®",
	"trade":  "™",
	"deg":    "°",
	"plusmn": "±",
	"frac12": "½",
	"frac14": "¼",
	"frac34": "¾",
	"sup1":   "¹",
	"sup2":   "²",
	"sup3":   "³",
	"micro":  "µ",
	"times":  "×",
	"divide": "÷",
	"minus":  "−",
	"le":     "≤",
	"ge":     "≥",
	"ne":     "≠",
	"infin":  "∞",
	"permil": "‰",

	"cent":  "¢",
	"pound": "£",
	"yen":   "¥",
	"euro":  "€",

	"iexcl":  "¡",
	"iquest": "¿",
	"szlig":  "ß",
	"agrave": "à",
	"aacute": "á",
	"acirc":  "â",
	"atilde": "ã",
	"auml":   "ä",
	"aring":  "å",
	"aelig":  "æ",
	"ccedil": "ç",
	"egrave": "è",
	"eacute": "é",
	"ecirc":  "ê",
	"euml":   "ë",
	"igrave": "ì",
	"iacute": "í",
	"icirc":  "î",
	"iuml":   "ï",
	"ntilde": "ñ",
	"ograve": "ò",
	"oacute": "ó",
	"ocirc":  "ô",
	"otilde": "õ",
	"ouml":   "ö",
	"oslash": "ø",
	"ugrave": "ù",
	"uacute": "ú",
	"ucirc":  "û",
	"uuml":   "ü",
	"yacute": "ý",
	"yuml":   "ÿ",

	"alpha":  "α",
	"beta":   "β",
	"gamma":  "γ",
	"delta":  "δ",
	"epsilon": "ε",
	"lambda": "λ",
	"mu":     "μ",
	"pi":     "π",
	"sigma":  "σ",
	"omega":  "ω",

	"larr": "←",
	"uarr": "↑",
	"rarr": "→",
	"darr": "↓",
	"harr": "↔",
}
