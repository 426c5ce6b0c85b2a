package service

import (
	"context"
	"fmt"

	"github.com/google/go-github/v82/github"

	"github-slack-bot/project/domain"
)

// stateOpen は pull_request / issues を通知対象とする状態です
const stateOpen = "open"

// NotifyService は GitHub イベントから Slack 通知を作成・送信するサービスです
type NotifyService interface {
	// Classify はイベントを解析し、通知内容を返します
	// 通知対象外のイベント種別の場合は (nil, nil) を返します
	Classify(eventType string, body []byte) (*Notification, error)

	// Notify は Classify の結果を Slack に送信します
	// メンションがなければ送信せず dispatched=false を返します
	Notify(ctx context.Context, eventType string, body []byte) (dispatched bool, err error)
}

// notifyService は NotifyService の実装です
type notifyService struct {
	mapping *domain.Mapping
	sp      SlackPort
}

// NewNotifyService は NotifyService のインスタンスを作成します
// mapping は起動時に読み込んだ読み取り専用の対応表です
func NewNotifyService(mapping *domain.Mapping, sp SlackPort) NotifyService {
	return &notifyService{
		mapping: mapping,
		sp:      sp,
	}
}

// Classify はイベント種別ごとにメンションの抽出元を決定します
func (ns *notifyService) Classify(eventType string, body []byte) (*Notification, error) {
	kind := EventKind(eventType)
	if !kind.IsKnown() {
		return nil, nil
	}

	event, err := github.ParseWebHook(eventType, body)
	if err != nil {
		return nil, fmt.Errorf("Classify: %w (event=%s): %v", domain.ErrInvalidPayload, eventType, err)
	}

	accounts := ns.mapping.Accounts
	n := &Notification{Kind: kind}

	switch e := event.(type) {
	case *github.IssueCommentEvent:
		n.Repository = e.GetRepo().GetName()
		n.Mentions = ExtractMentions(e.GetComment().GetBody(), accounts)
	case *github.PullRequestReviewCommentEvent:
		n.Repository = e.GetRepo().GetName()
		n.Mentions = ExtractMentions(e.GetComment().GetBody(), accounts)
	case *github.PullRequestReviewEvent:
		n.Repository = e.GetRepo().GetName()
		n.Mentions = ExtractMentions(e.GetReview().GetBody(), accounts)
	case *github.PullRequestEvent:
		n.Repository = e.GetRepo().GetName()
		pr := e.GetPullRequest()
		if pr.GetState() == stateOpen {
			n.Mentions = append(ExtractMentions(pr.GetBody(), accounts), AssigneeMentions(pr.Assignees, accounts)...)
		}
	case *github.IssuesEvent:
		n.Repository = e.GetRepo().GetName()
		issue := e.GetIssue()
		if issue.GetState() == stateOpen {
			n.Mentions = append(ExtractMentions(issue.GetBody(), accounts), AssigneeMentions(issue.Assignees, accounts)...)
		}
	default:
		// IsKnown と ParseWebHook の対応が崩れた場合のみ到達
		return nil, fmt.Errorf("Classify: %w: 未対応のイベント型 %T", domain.ErrInvalidPayload, event)
	}

	return n, nil
}

// Notify はメンション抽出 → チャンネル選択 → Slack 送信を行います
func (ns *notifyService) Notify(ctx context.Context, eventType string, body []byte) (bool, error) {
	n, err := ns.Classify(eventType, body)
	if err != nil {
		return false, err
	}

	text := n.Text()
	if text == "" {
		// 通知対象外イベント、またはメンションなし
		return false, nil
	}

	msg := &domain.OutboundMessage{
		Text:      text,
		Channel:   ns.mapping.Channels.Lookup(n.Repository),
		LinkNames: 1,
	}

	if err := ns.sp.PostMessage(ctx, msg); err != nil {
		return false, fmt.Errorf("Notify: %w (channel=%s): %w", domain.ErrDispatch, msg.Channel, err)
	}

	return true, nil
}
