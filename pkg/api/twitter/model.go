package twitter

type PublicMetrics struct {
	RetweetCount int `mapstructure:"retweet_count"`
	ReplyCount   int `mapstructure:"reply_count"`
	LikeCount    int `mapstructure:"like_count"`
	QuoteCount   int `mapstructure:"quote_count"`
}

type Tweet struct {
	ID            string        `mapstructure:"id"`
	Text          string        `mapstructure:"text"`
	PublicMetrics PublicMetrics `mapstructure:"public_metrics"`
}
