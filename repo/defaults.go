package repo

import "StreamerPoll/model"

// DefaultPollConfig is used whenever the configured source cannot be read.
func DefaultPollConfig() model.PollConfig {
	return model.PollConfig{
		PollOptions: []string{
			"Play a brand new game",
			"Take on a challenge",
			"Answer chat questions",
			"Tell a funny story",
			"Show what's behind the scenes",
			"Start a giveaway",
			"Run a popularity vote",
			"Do a live tutorial",
			"Share exclusive tips",
			"Invite a viewer to join in",
		},
		NeverPollOptions: []string{
			"End the stream right now",
			"Read the terms of service out loud",
		},
		Messages: model.MessageTemplates{
			PollIntro:  "👩‍💻 *{characterName} smiles at the camera and says:* \"Hey everyone! Quick poll time! What do you think?\"\n\n",
			PollOption: "🔹 {index}. {option}\n",
			PollResult: "🎉 *{characterName} announces excitedly:* \"And the winning option is... **{winningOption}**! Thanks for voting, everyone!\"",
		},
		OptionsPerPoll:      model.DefaultOptionsPerPoll,
		NeverOptionsPerPoll: model.DefaultNeverOptionsPerPoll,
	}
}
