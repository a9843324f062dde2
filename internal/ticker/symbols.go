package ticker

// blacklist holds common English words that frequently appear in all
// caps but are never treated as tickers. Checked before the whitelist
// so ambiguous words lose even when a real symbol shares the spelling.
var blacklist = newSet(
	// Single letters
	"I", "A",

	// Articles and prepositions
	"THE", "FOR", "AND", "OR", "BUT", "NOT", "IS", "ARE", "WAS", "WERE", "BE", "BEING",
	"HAVE", "HAS", "HAD", "DO", "DOES", "DID", "WILL", "WOULD", "COULD", "SHOULD",
	"MAY", "MIGHT", "MUST", "CAN", "AT", "BY", "IN", "ON", "TO", "UP", "OUT", "OF",
	"OVER", "UNDER", "WITH", "FROM", "AS", "ABOUT", "INTO", "THROUGH", "DURING",

	// Common verbs
	"GET", "MAKE", "GO", "COME", "TAKE", "PUT", "SET", "KEEP", "HOLD", "FIND",
	"GIVE", "TELL", "WORK", "CALL", "NEED", "WANT", "LOOK", "SEEM", "FEEL", "TRY",
	"SELL", "BUY", "MARKET", "STOCK",

	// Common adjectives and adverbs
	"GOOD", "BAD", "BEST", "WORST", "NEW", "OLD", "BIG", "SMALL", "HIGH", "LOW",
	"LONG", "SHORT", "FAST", "SLOW", "EASY", "HARD", "FIRST", "LAST", "OTHER",
	"SAME", "DIFFERENT", "ONLY", "VERY", "MORE", "MOST", "LESS", "LEAST", "ALL", "SOME",

	// Common nouns
	"TIME", "YEAR", "DAY", "WEEK", "MONTH", "HOUR", "MINUTE", "SECOND", "MOMENT",
	"PLACE", "WAY", "THING", "PEOPLE", "MAN", "WOMAN", "CHILD", "PERSON", "LIFE",
	"MONEY", "PRICE", "COST", "VALUE", "CASH", "GAIN", "LOSS", "PROFIT", "RISK",
	"TRADE", "DEAL", "BUSINESS", "COMPANY", "FIRM", "BANK", "FUND",
	"RATE", "RETURN", "YIELD", "GROWTH", "TREND", "DATA", "INFO", "NEWS",

	// Trading jargon that is not a ticker
	"BULL", "BEAR", "MOON", "HODL", "YOLO", "LOL", "AN", "IT",
	"THIS", "THAT", "THESE", "THOSE", "WHAT", "WHICH", "WHERE", "WHEN", "WHY", "HOW",

	// Currencies and financial acronyms
	"USD", "EUR", "GBP", "JPY", "CHF", "AUD", "CAD", "NZD", "INR", "CNY",
	"ETF", "IPO", "EPS", "PE", "ROE", "ROI", "IRR", "ACB",

	// Internet slang
	"PUMP", "DUMP", "DIP", "RIP", "DIAMOND", "HANDS",
	"ROCKET", "FIRE", "YOUR", "OWN", "DD", "NOW",
)

// whitelist is the closed set of symbols the extractor may return.
// A caps token that is not in this set is dropped even when it looks
// like a ticker, which keeps acronyms and shouting out of the data.
var whitelist = newSet(
	// Mega-cap tech
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "META", "NVDA", "AMD", "INTC", "TSLA",
	"NFLX", "ADBE", "CRM", "ORCL", "CSCO", "AVGO", "QCOM", "TXN", "MU", "AMAT",
	"LRCX", "KLAC", "SNPS", "CDNS", "MCHP", "MRVL", "ADI", "NXPI", "ASML",

	// Meme stocks
	"GME", "AMC", "BB", "BBBY", "NOK", "PLTR", "WISH", "CLOV", "SOFI", "HOOD",
	"COIN", "DKNG", "SPCE", "OPEN", "FUBO", "SKLZ", "ROOT", "GOEV",

	// Major ETFs
	"SPY", "QQQ", "IWM", "DIA", "VOO", "VTI", "ARKK", "ARKG", "ARKF", "ARKW",
	"XLF", "XLE", "XLK", "XLV", "XLI", "XLP", "XLY", "XLB", "XLU", "XLRE",
	"SMH", "SOXX", "VGT", "GLD", "SLV", "USO", "TLT", "HYG", "SQQQ", "TQQQ",

	// Finance and banking
	"JPM", "BAC", "WFC", "C", "GS", "MS", "BLK", "SCHW", "AXP", "USB",
	"PNC", "TFC", "COF", "BK", "STT", "V", "MA", "PYPL", "SQ", "FIS",

	// EV and auto
	"F", "GM", "TM", "HMC", "RIVN", "LCID", "NIO", "XPEV", "LI", "PLUG",

	// Energy
	"XOM", "CVX", "COP", "SLB", "EOG", "PXD", "OXY", "HAL", "MPC", "PSX",

	// Healthcare and pharma
	"JNJ", "UNH", "PFE", "ABBV", "TMO", "ABT", "DHR", "MRK", "LLY", "BMY",
	"AMGN", "GILD", "CVS", "CI", "ISRG", "MDT", "SYK", "BSX", "ZTS", "REGN",
	"MRNA", "BNTX", "VRTX", "BIIB", "ILMN",

	// Retail and consumer
	"WMT", "COST", "TGT", "HD", "LOW", "NKE", "SBUX", "MCD", "CMG", "DPZ",
	"YUM", "BKNG", "MAR", "HLT", "DIS", "CMCSA", "T", "VZ", "TMUS",

	// Consumer goods
	"PG", "KO", "PEP", "PM", "MO", "CL", "EL", "MDLZ", "MNST", "KHC",
	"GIS", "K", "HSY", "CLX", "CHD",

	// Industrial and aerospace
	"BA", "CAT", "DE", "GE", "HON", "UPS", "FDX", "RTX", "LMT", "NOC",
	"GD", "LHX", "TXT", "ETN", "EMR", "ROK", "PH", "ITW",

	// Chinese ADRs
	"BABA", "JD", "PDD", "BIDU", "TME", "BILI", "IQ", "NTES", "WB", "DIDI",

	// SPACs and recent IPOs
	"RBLX", "ABNB", "DASH", "SNOW", "U", "CPNG", "GRAB",

	// Semiconductors
	"TSM",

	// Communication and social
	"SNAP", "PINS", "TWTR", "SPOT", "MTCH", "ZM", "DOCU", "TEAM", "WDAY",

	// Cloud and software
	"PANW", "CRWD", "ZS", "DDOG", "NET", "OKTA", "SPLK",
	"TWLO", "FTNT", "UBER", "LYFT",

	// Real estate
	"AMT", "PLD", "CCI", "EQIX", "PSA", "SPG", "O", "WELL", "DLR", "AVB",

	// Crypto-adjacent
	"MSTR", "RIOT", "MARA", "CLSK", "HUT", "BITF",

	// Leveraged and volatility ETFs
	"UPRO", "SPXL", "SPXS", "UDOW", "SDOW", "TNA", "TZA",
	"UVXY", "VXX", "VIXY",
)

func newSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsKnownTicker reports whether the symbol is in the whitelist
func IsKnownTicker(symbol string) bool {
	_, ok := whitelist[symbol]
	return ok
}
