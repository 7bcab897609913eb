package lastfm

// Tag is a Last.fm folksonomy tag. Count is the relative weight (0-100)
// Last.fm assigns the tag for the artist.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	URL   string `json:"url"`
}

// topTags is the "toptags" object of artist.getTopTags.
type topTags struct {
	Tag  []Tag `json:"tag"`
	Attr struct {
		Artist string `json:"artist"`
	} `json:"@attr"`
}

// artistTagsResponse is the JSON response for artist.getTopTags.
type artistTagsResponse struct {
	TopTags topTags `json:"toptags"`
}

// apiError represents a Last.fm API error response.
type apiError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}
