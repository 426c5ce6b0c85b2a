package service

import (
	"regexp"

	"github.com/google/go-github/v82/github"

	"github-slack-bot/project/domain"
)

// mentionPattern は GitHub の @メンション（英数字・ハイフン・アンダースコア）です
var mentionPattern = regexp.MustCompile(`@[a-zA-Z0-9_\-]+`)

// ExtractMentions はテキストから @メンションを抽出し、AccountMap で変換します
// 出現順を保持し、同じ名前が複数回出現しても重複除去しません
func ExtractMentions(text string, accounts domain.AccountMap) []string {
	if text == "" {
		return nil
	}

	matches := mentionPattern.FindAllString(text, -1)
	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, accounts.Resolve(m))
	}
	return result
}

// AssigneeMentions は担当者の login から "@" + login を作り、AccountMap で変換します
// 担当者リストの順序を保持します
func AssigneeMentions(assignees []*github.User, accounts domain.AccountMap) []string {
	if len(assignees) == 0 {
		return nil
	}

	result := make([]string, 0, len(assignees))
	for _, u := range assignees {
		if u == nil {
			continue
		}
		result = append(result, accounts.Resolve("@"+u.GetLogin()))
	}
	return result
}
