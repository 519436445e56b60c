// Package protocol implements the bracket-framed ASCII wire format:
// messages look like [type|arg1|arg2|...], a 4-letter type plus
// pipe-separated fields, with no escaping. Outbound free text is sanitized
// so it cannot forge framing.
package protocol

import "fmt"

type MsgType int32

const (
	MsgUnknown MsgType = iota
	MsgJoin
	MsgChat
	MsgExit
	MsgAnte
	MsgDeal
	MsgTurn
	MsgInsu
	MsgStat
	MsgEndg
	MsgErrr
)

var msgNames = map[MsgType]string{
	MsgJoin: "join",
	MsgChat: "chat",
	MsgExit: "exit",
	MsgAnte: "ante",
	MsgDeal: "deal",
	MsgTurn: "turn",
	MsgInsu: "insu",
	MsgStat: "stat",
	MsgEndg: "endg",
	MsgErrr: "errr",
}

var msgTypes = func() map[string]MsgType {
	m := make(map[string]MsgType, len(msgNames))
	for t, name := range msgNames {
		m[name] = t
	}
	return m
}()

func (t MsgType) String() string {
	if name, ok := msgNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MsgType(%d)", t)
}

// ParseMsgType maps a wire type token; anything unrecognized is MsgUnknown,
// which earns the sender a scold rather than a parse failure.
func ParseMsgType(name string) MsgType {
	if t, ok := msgTypes[name]; ok {
		return t
	}
	return MsgUnknown
}

// Frame is one decoded message. Raw keeps the inner text verbatim so an
// unknown frame can be quoted back at the sender.
type Frame struct {
	Type MsgType
	Raw  string
	Args []string
}

func (f Frame) Desc() string {
	return fmt.Sprintf("[%v|%d args]", f.Type, len(f.Args))
}
