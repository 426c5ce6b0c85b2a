package service

import "strings"

// EventKind は X-GitHub-Event ヘッダの値のうち通知対象とするイベント種別です
type EventKind string

const (
	KindIssueComment             EventKind = "issue_comment"
	KindPullRequestReviewComment EventKind = "pull_request_review_comment"
	KindPullRequestReview        EventKind = "pull_request_review"
	KindPullRequest              EventKind = "pull_request"
	KindIssues                   EventKind = "issues"
)

// IsKnown は通知対象のイベント種別かどうかを返します
// 大文字小文字は区別します
func (k EventKind) IsKnown() bool {
	switch k {
	case KindIssueComment, KindPullRequestReviewComment, KindPullRequestReview, KindPullRequest, KindIssues:
		return true
	}
	return false
}

// Notification はイベントから抽出した通知内容です
type Notification struct {
	// Kind はイベント種別
	Kind EventKind

	// Repository は repository.name
	Repository string

	// Mentions は変換済みメンション（出現順、重複除去なし）
	Mentions []string
}

// Text は各メンションを 1 行ずつ改行で終端して連結します
// メンションがない場合は空文字を返します
func (n *Notification) Text() string {
	if n == nil || len(n.Mentions) == 0 {
		return ""
	}
	return strings.Join(n.Mentions, "\n") + "\n"
}
