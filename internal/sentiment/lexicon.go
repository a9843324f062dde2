package sentiment

// lexicon maps lowercase tokens to valence scores on the VADER scale
// (roughly -4 to +4). It combines a compact general-purpose sentiment
// vocabulary with trading-forum slang, since the input is social media
// chatter about stocks rather than ordinary prose.
var lexicon = map[string]float64{
	// General positive
	"good": 1.9, "great": 3.1, "excellent": 2.7, "amazing": 2.8,
	"awesome": 3.1, "love": 3.2, "like": 1.5, "best": 3.2,
	"happy": 2.7, "win": 2.8, "winning": 2.8, "strong": 2.3,
	"solid": 1.8, "beat": 1.5, "beats": 1.5, "up": 1.2,
	"huge": 1.6, "nice": 1.8, "easy": 1.5, "confident": 2.2,
	"opportunity": 1.6, "growth": 1.9, "undervalued": 2.0,

	// General negative
	"bad": -2.5, "terrible": -3.1, "awful": -2.9, "horrible": -2.9,
	"hate": -2.7, "worst": -3.1, "sad": -2.1, "lose": -2.4,
	"losing": -2.4, "weak": -1.9, "down": -1.2, "miss": -1.5,
	"missed": -1.5, "fear": -2.2, "panic": -2.9, "scam": -3.3,
	"fraud": -3.2, "overvalued": -2.0, "risky": -1.5, "bankrupt": -3.4,
	"bankruptcy": -3.4, "debt": -1.4, "worthless": -3.0,

	// Trading slang
	"moon": 4.0, "mooning": 4.0, "rocket": 3.5,
	"bullish": 3.0, "bull": 2.5, "calls": 2.0,
	"long": 1.5, "buy": 1.5, "buying": 1.5, "green": 1.5,
	"gains": 2.5, "tendies": 3.0, "profit": 2.0, "winner": 2.5,
	"squeeze": 3.0,
	"shorts": -2.0, "short": -1.5, "bearish": -3.0, "bear": -2.5,
	"puts": -2.0, "sell": -1.5, "selling": -1.5, "red": -1.5,
	"loss": -2.5, "losses": -2.5, "crash": -3.5, "dump": -3.0,
	"rug": -3.5, "rekt": -4.0, "bagholding": -3.0, "bagholder": -3.0,
	"fomo": -1.0,
	// Slightly negative but often framed as a buying opportunity
	"dip": -0.5,
	// Risk-taking but positive sentiment
	"yolo":    2.0,
	"diamond": 3.0, "hands": 2.0, "hold": 1.5, "hodl": 2.0,
}

// boosters scale the valence of the word that follows them
var boosters = map[string]float64{
	"very": 0.293, "really": 0.293, "extremely": 0.293,
	"incredibly": 0.293, "super": 0.293, "absolutely": 0.293,
	"so": 0.293, "totally": 0.293, "insanely": 0.293,
	"slightly": -0.293, "somewhat": -0.293, "barely": -0.293,
	"kinda": -0.293, "hardly": -0.293, "marginally": -0.293,
}

// negations flip and dampen the valence of nearby sentiment words
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {},
	"isnt": {}, "isn't": {}, "wasnt": {}, "wasn't": {},
	"dont": {}, "don't": {}, "doesnt": {}, "doesn't": {},
	"didnt": {}, "didn't": {}, "wont": {}, "won't": {},
	"cant": {}, "can't": {}, "cannot": {}, "aint": {}, "ain't": {},
	"without": {}, "nothing": {}, "nobody": {},
}
