package poll

import (
	"strconv"
	"strings"

	"StreamerPoll/model"
)

const defaultResultLine = "{rank}. {option}: {percent}% ({votes} votes)\n"

// renderAnnouncement builds the intro followed by one numbered line per presented option.
func renderAnnouncement(tpl model.MessageTemplates, characterName string, presented []string) string {
	var b strings.Builder
	b.WriteString(FormatMessage(tpl.PollIntro, map[string]string{
		"characterName": characterName,
	}))
	for i, option := range presented {
		b.WriteString(FormatMessage(tpl.PollOption, map[string]string{
			"index":  strconv.Itoa(i + 1),
			"option": option,
		}))
	}
	return b.String()
}

// renderResult builds the winner announcement followed by the ranked vote breakdown.
func renderResult(tpl model.MessageTemplates, round model.PollRound) string {
	var b strings.Builder
	b.WriteString(FormatMessage(tpl.PollResult, map[string]string{
		"characterName": round.CharacterName,
		"winningOption": round.Winner,
		"totalVotes":    strconv.Itoa(round.TotalVotes),
	}))
	b.WriteString("\n\n")

	line := tpl.PollResultLine
	if line == "" {
		line = defaultResultLine
	}
	for i, res := range round.Ranking() {
		b.WriteString(FormatMessage(line, map[string]string{
			"rank":    strconv.Itoa(i + 1),
			"option":  res.Option,
			"percent": strconv.Itoa(res.Percent),
			"votes":   strconv.Itoa(res.Votes),
		}))
	}
	return b.String()
}
