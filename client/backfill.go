package client

import (
	"workspace-chat/gateway/wire"
)

// Backfill closes a gap on one timeline: it pages history after the last
// known message, then resumes the event stream after HeadSeq.
type Backfill struct {
	timeline *Timeline
	headSeq  uint64
	ref      string
}

// StartBackfill requests the first history page for a gap frame.
func (c *Conn) StartBackfill(timeline *Timeline, gap wire.Frame) (*Backfill, error) {
	b := &Backfill{timeline: timeline, headSeq: gap.HeadSeq}
	if err := b.request(c, timeline.LastMessageID()); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Backfill) Timeline() *Timeline { return b.timeline }

// Ref is the ref of the history page awaited.
func (b *Backfill) Ref() string { return b.ref }

// Continue takes the result frame answering Ref. It asks for the next page
// while pages are not empty and reports true once the timeline resumed.
func (b *Backfill) Continue(c *Conn, frame wire.Frame) (bool, error) {
	messages, err := Result[[]wire.Message](frame)
	if err != nil {
		return false, err
	}
	if len(messages) == 0 {
		b.timeline.Resync(b.headSeq)
		return true, nil
	}
	b.timeline.Refresh(messages)
	return false, b.request(c, messages[len(messages)-1].ID)
}

func (b *Backfill) request(c *Conn, afterID uint64) error {
	ref, err := c.Send(wire.Intent{Op: wire.OpHistory, ChannelID: b.timeline.ChannelID(), AfterID: afterID})
	if err != nil {
		return err
	}
	b.ref = ref
	return nil
}
