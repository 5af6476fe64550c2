package tui

import (
	"strings"
	"time"

	"github.com/dyluth/factorydash/internal/bot"
	"github.com/gdamore/tcell/v2"
)

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Greeting opens every chat transcript.
const Greeting = "Hello! I'm your factory assistant. How can I help you today?"

// ChatErrorReply is shown in place of a bot answer when the request fails.
const ChatErrorReply = "Sorry, I'm having trouble processing your request right now."

// ChatMessage is one line of the chat transcript.
type ChatMessage struct {
	Sender Sender
	Text   string
	Time   time.Time
}

func greeting() ChatMessage {
	return ChatMessage{Sender: SenderBot, Text: Greeting, Time: time.Now()}
}

// Transcript returns a copy of the chat history, oldest first.
func (a *App) Transcript() []ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ChatMessage(nil), a.transcript...)
}

// Input returns the text typed but not yet sent.
func (a *App) Input() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return string(a.input)
}

// Sending reports whether a bot request is in flight.
func (a *App) Sending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sending
}

func (a *App) handleChatKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		a.send()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.mu.Lock()
		if n := len(a.input); n > 0 {
			a.input = a.input[:n-1]
		}
		a.mu.Unlock()
	case tcell.KeyRune:
		a.mu.Lock()
		a.input = append(a.input, ev.Rune())
		a.mu.Unlock()
	}
}

// send posts the typed message to the bot in the background. Blank input
// and input typed while a request is in flight are ignored.
func (a *App) send() {
	a.mu.Lock()
	message := string(a.input)
	if strings.TrimSpace(message) == "" || a.sending || a.closed {
		a.mu.Unlock()
		return
	}
	a.input = a.input[:0]
	a.sending = true
	a.transcript = append(a.transcript, ChatMessage{Sender: SenderUser, Text: message, Time: time.Now()})
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		reply := ChatMessage{Sender: SenderBot, Text: ChatErrorReply, Time: time.Now()}
		if result := a.api.SendBotMessage(a.ctx, message); result.Success {
			reply.Text = result.Data.Message
			if ts, err := time.Parse(bot.TimestampFormat, result.Data.Timestamp); err == nil {
				reply.Time = ts
			}
		}

		a.mu.Lock()
		a.transcript = append(a.transcript, reply)
		a.sending = false
		a.mu.Unlock()
	}()
}

func (a *App) drawChat(s tcell.Screen, w, h int) {
	a.mu.Lock()
	transcript := append([]ChatMessage(nil), a.transcript...)
	input := string(a.input)
	sending := a.sending
	a.mu.Unlock()

	type row struct {
		text  string
		style tcell.Style
	}

	var rows []row
	for _, m := range transcript {
		prefix, style := "Bot: ", styleBot
		if m.Sender == SenderUser {
			prefix, style = "You: ", styleUser
		}
		stamp := m.Time.Local().Format("15:04")
		for i, l := range wrap(m.Text, w-len(prefix)-10) {
			if i == 0 {
				rows = append(rows, row{stamp + "  " + prefix + l, style})
			} else {
				rows = append(rows, row{strings.Repeat(" ", len(stamp)+2+len(prefix)) + l, style})
			}
		}
	}
	if sending {
		rows = append(rows, row{"Bot is typing...", styleDim})
	}

	// Transcript fills rows 2..h-4, newest at the bottom
	top, bottom := 2, h-4
	if visible := bottom - top; len(rows) > visible && visible > 0 {
		rows = rows[len(rows)-visible:]
	}
	for i, r := range rows {
		drawText(s, 1, top+i, w, r.style, r.text)
	}

	fill(s, 0, h-3, w, styleDefault)
	x := drawText(s, 1, h-3, w, styleBold, "> ")
	x = drawText(s, x, h-3, w-1, styleDefault, input)
	s.SetContent(x, h-3, '█', nil, styleDim)
}
