package events

import "time"

// TwitchEventSubType discriminates TwitchEventSubData's ~25 notification
// subtypes (spec.md §4.1, §6). This package defines the types only; it
// contains no parser for EventSub notification payloads.
type TwitchEventSubType string

const (
	EventSubBits                      TwitchEventSubType = "bits"
	EventSubFollow                    TwitchEventSubType = "follow"
	EventSubSubscribe                 TwitchEventSubType = "subscribe"
	EventSubSubscriptionEnd           TwitchEventSubType = "subscription_end"
	EventSubSubscriptionGift          TwitchEventSubType = "subscription_gift"
	EventSubSubscriptionMessage       TwitchEventSubType = "subscription_message"
	EventSubCheer                     TwitchEventSubType = "cheer"
	EventSubRaid                      TwitchEventSubType = "raid"
	EventSubBan                       TwitchEventSubType = "ban"
	EventSubUnban                     TwitchEventSubType = "unban"
	EventSubModeratorAdd              TwitchEventSubType = "moderator_add"
	EventSubModeratorRemove           TwitchEventSubType = "moderator_remove"
	EventSubHypeTrainBegin            TwitchEventSubType = "hype_train_begin"
	EventSubHypeTrainProgress         TwitchEventSubType = "hype_train_progress"
	EventSubHypeTrainEnd              TwitchEventSubType = "hype_train_end"
	EventSubShoutoutCreate            TwitchEventSubType = "shoutout_create"
	EventSubShoutoutReceive           TwitchEventSubType = "shoutout_receive"
	EventSubSharedChatBegin           TwitchEventSubType = "shared_chat_begin"
	EventSubSharedChatUpdate          TwitchEventSubType = "shared_chat_update"
	EventSubSharedChatEnd             TwitchEventSubType = "shared_chat_end"
	EventSubChannelPointsCustomRedeem TwitchEventSubType = "channel_points_custom_redemption"
	EventSubChannelPointsAutoRedeem   TwitchEventSubType = "channel_points_automatic_redemption"
	EventSubStreamOnline              TwitchEventSubType = "stream_online"
	EventSubStreamOffline             TwitchEventSubType = "stream_offline"
	EventSubChannelUpdate             TwitchEventSubType = "channel_update"
	EventSubPollBegin                 TwitchEventSubType = "poll_begin"
	EventSubPollEnd                   TwitchEventSubType = "poll_end"
)

// TwitchEventSubData is a tagged union over Twitch EventSub notifications.
// Only the field matching Type is populated; all share the broadcaster
// identity and OccurredAt fields declared first.
type TwitchEventSubData struct {
	Type            TwitchEventSubType
	BroadcasterID   string
	BroadcasterName string
	OccurredAt      time.Time

	Bits          *BitsData
	Follow        *FollowData
	Subscription  *SubscriptionData
	Gift          *GiftData
	Cheer         *CheerData
	Raid          *RaidData
	Moderation    *ModerationData
	HypeTrain     *HypeTrainData
	Shoutout      *ShoutoutData
	SharedChat    *SharedChatData
	ChannelPoints *ChannelPointsRedemptionData
	Stream        *StreamStatusData
	Channel       *ChannelUpdateData
	Poll          *PollData
}

type BitsData struct {
	UserID, UserName string
	Bits             int
	Message          string
}

type FollowData struct {
	UserID, UserName string
	FollowedAt       time.Time
}

type SubscriptionData struct {
	UserID, UserName string
	Tier             string
	IsGift           bool
}

type GiftData struct {
	GifterID, GifterName string
	Tier                 string
	Total                int
	Anonymous            bool
}

type CheerData struct {
	UserID, UserName string
	Bits             int
	Message          string
	Anonymous        bool
}

type RaidData struct {
	FromBroadcasterID, FromBroadcasterName string
	ToBroadcasterID, ToBroadcasterName     string
	ViewerCount                            int
}

type ModerationData struct {
	UserID, UserName     string
	ModeratorID, ModName string
	Reason               string
	IsBan                bool
}

type HypeTrainData struct {
	Level       int
	Total       int
	Goal        int
	Progress    string // "begin" | "progress" | "end"
	TopBits     []string
}

type ShoutoutData struct {
	FromBroadcasterID, ToBroadcasterID string
	ViewerCount                        int
	IsReceive                          bool
}

type SharedChatData struct {
	SessionID string
	Lifecycle string // "begin" | "update" | "end"
	Hosts     []string
}

type ChannelPointsRedemptionData struct {
	RedemptionID string
	UserID       string
	UserName     string
	RewardTitle  string
	RewardCost   int
	UserInput    string
	Status       string
	Automatic    bool
}

type StreamStatusData struct {
	Online    bool
	StartedAt *time.Time
}

type ChannelUpdateData struct {
	Title        string
	CategoryID   string
	CategoryName string
	Language     string
}

type PollData struct {
	PollID string
	Title  string
	Status string // "begin" | "end"
}
