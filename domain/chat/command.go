package chat

type AppendCommand struct {
	ChannelID     ChannelID
	AuthorID      UserID
	Body          string
	ParentID      *MessageID
	Attachments   []string
	CorrelationID string
	// Origin identifies the session that sent the message, so the
	// correlation id is echoed back to that session only.
	Origin string
}

type CreateChannelCommand struct {
	WorkspaceID    WorkspaceID
	Kind           ChannelKind
	Name           string
	CreatedBy      UserID
	InitialMembers []UserID
}

// ListQuery selects a window of messages in ascending id order.
// A zero Limit means no limit. ParentID restricts the listing to thread replies.
// When ReaderID is set, the reader's access to the channel is checked before the first page.
type ListQuery struct {
	ChannelID ChannelID
	AfterID   MessageID
	Limit     int
	ParentID  *MessageID
	ReaderID  UserID
}
