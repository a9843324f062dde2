package reddit

// listingResponse mirrors the public listing JSON, limited to the
// fields we consume
type listingResponse struct {
	Data struct {
		After    string  `json:"after"`
		Children []child `json:"children"`
	} `json:"data"`
}

type child struct {
	Kind string      `json:"kind"`
	Data listingPost `json:"data"`
}

type listingPost struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"` // fullname, e.g. t3_abc123
	Subreddit     string  `json:"subreddit"`
	Title         string  `json:"title"`
	SelfText      string  `json:"selftext"`
	Author        string  `json:"author"`
	Score         int     `json:"score"`
	NumComments   int     `json:"num_comments"`
	UpvoteRatio   float64 `json:"upvote_ratio"`
	CreatedUTC    float64 `json:"created_utc"`
	Permalink     string  `json:"permalink"`
	Stickied      bool    `json:"stickied"`
	IsSelf        bool    `json:"is_self"`
	LinkFlairText string  `json:"link_flair_text"`
}
