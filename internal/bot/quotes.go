package bot

import "math/rand"

// krangQuotes is appended to unknown-command replies, in the voice of the
// bot's namesake.
var krangQuotes = []string{
	"I'm finally FREE!! The people of this planet will pay for what they've done to me.",
	"Brother, Sister, join me. It's time for us to finish remaking this universe in the image of Krang.",
	"WIPE THAT GRIN OFF YOUR FACE!",
	"It's pointless to resist Krang. Give up! You'll be consumed like everyone else on this pathetic planet!",
	"Outmatched and alone, yet you persist. For what? Honor? Redemption? Sacrifice... All... Meaningless.",
	"A word used by the weak. Many planets before yours have spoken of duty. They too have been consumed by the Krang and now our glorious crusade continues to restore the natural order of things. The strong will devour the weak.",
	"A rare misstep. Once I retrieve the key from your comrades, I will bring forth the mighty Technodrome and you will witness the true power of the Krang. Now, where have they taken my key?",
	"Shame our brethren didn't survive the Prison Dimension. Then again, their weakness has no place in my new Krang empire. Open and bring unto this world the mighty power of Krang!",
}

// randomQuote picks a quote. Selection happens here, outside the formatter,
// so formatting stays deterministic for a given Result.
func randomQuote() string {
	return krangQuotes[rand.Intn(len(krangQuotes))]
}
