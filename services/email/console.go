package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/kymanzi/ofisi/core"
)

var (
	// SentMessages records messages "sent" by the console backend;
	// tests assert against it.
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

type consoleService struct {
	conf             *core.Config
	defaultFromEmail mail.Address
	subjPrefix       string
	disableOutput    bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		conf:             conf,
		defaultFromEmail: conf.DefaultFromEmail(),
		subjPrefix:       "[" + conf.AppName + "] ",
		disableOutput:    conf.TestMode,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if err := msg.Render(svc.conf); err != nil {
		log.Printf("%+v", errors.Wrap(err, "rendering email"))
		return
	}
	if msg.HasRecipients() && (msg.HasContent() || msg.HasAttachments()) {
		svc.send(*msg)
		mu.Lock()
		SentMessages = append(SentMessages, *msg)
		mu.Unlock()
	}
}

func (svc consoleService) send(msg core.EmailMessage) {
	if svc.disableOutput {
		return
	}

	body := new(strings.Builder)
	body.WriteString("From: " + svc.defaultFromEmail.String() + "\n")
	body.WriteString("To: " + joinAddresses(msg.To) + "\n")
	if len(msg.Cc) > 0 {
		body.WriteString("Cc: " + joinAddresses(msg.Cc) + "\n")
	}
	body.WriteString("Subject: " + svc.subjPrefix + msg.Subject + "\n")
	body.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\n\n")
	body.WriteString(msg.TextContent + "\n")
	for _, at := range msg.Attachments {
		body.WriteString(fmt.Sprintf("[attachment: %s (%s)]\n", at.Filename, at.ContentType))
	}
	fmt.Println(body.String())
}

func joinAddresses(addrs []mail.Address) string {
	strs := make([]string, 0, len(addrs))
	for _, a := range addrs {
		strs = append(strs, a.String())
	}
	return strings.Join(strs, ", ")
}
