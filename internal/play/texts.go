package play

import (
	"fmt"

	"github.com/m3rciful/playbot/core/telegram/format"
	"github.com/m3rciful/playbot/internal/content"
	"github.com/m3rciful/playbot/internal/users"
)

// Replies are Telegram MarkdownV1. Anything that comes from a user or from
// the content tables goes through format.MD.

const msgHelp = `🤖 *Fun Bot Commands* 🤖

🎮 *Games & Fun:*
/roll - Roll a 6-sided dice 🎲
/game - Number guessing game 🔢
/quiz - Quick trivia question 🧠

😄 *Entertainment:*
/joke - Get a random joke 😂
/fact - Learn something amazing 🤓
/animal - See a cute animal 🐾
/quote - Daily inspiration ✨

🛠️ *Utilities:*
/math <expression> - Calculate math 🧮
/weather <city> - Weather info 🌤️
/reminder <minutes> <text> - Set reminder ⏰

📊 *Info:*
/stats - Your personal statistics 📊
/about - About this bot ℹ️

💬 *Just chat with me!* I respond to messages too! 😊`

const msgAbout = `🤖 *About Fun Bot* 🤖

✨ *Version:* %s
🔧 *Made with:* Go & telebot
🎯 *Purpose:* Spread joy and fun!

🌟 *Features:*
• Interactive games 🎮
• Entertainment content 😄
• Useful utilities 🛠️
• Personal statistics 📊

💝 Made with love for Telegram users!
🚀 Always learning and improving!

Use /help to see all commands! 📚`

const msgWelcome = `🎉 *Welcome %s!* 🎉

I'm your fun companion bot! Here's what I can do:

🎮 *Games & Fun*
🎲 Roll dice • 🔢 Number games • 🧠 Quick quiz

😄 *Entertainment*
😂 Jokes • 🤓 Fun facts • 🐾 Cute animals • ✨ Quotes

🛠️ *Utilities*
🧮 Calculator • 🌤️ Weather • ⏰ Reminders

Choose an option below or type /help for all commands! 👇`

const msgGameRules = `🎯 *Number Guessing Game!* 🎯

I'm thinking of a number between *1 and 10*!
You have *3 attempts* to guess it.

Just send me a number! 🤔`

const (
	msgGuessNotNumber  = "❌ Please send a number between 1 and 10!"
	msgGuessOutOfRange = "❌ Please guess between 1 and 10!"
	msgQuizExpired     = "❌ Quiz session expired. Try /quiz again!"
	msgQuizUseButtons  = "🧠 Pick one of the answer buttons above to finish the quiz!"
	msgMathInvalid     = "❌ Invalid expression! Only numbers and basic operators allowed."
	msgMathFailed      = "❌ Error in calculation. Please check your expression!"
	msgReminderNotInt  = "❌ Please enter a valid number of minutes!"
	msgReminderTooLong = "❌ Maximum reminder time is 24 hours!"
	msgNoStats         = "❌ No stats available. Use /start first!"
)

const msgMathUsage = "🧮 *Math Calculator*\n\n" +
	"Usage: `/math <expression>`\n\n" +
	"Examples:\n" +
	"• `/math 2 + 2`\n" +
	"• `/math 10 * 5 - 3`\n" +
	"• `/math (15 + 5) / 4`\n" +
	"• `/math 2.5 * 4`"

const msgWeatherUsage = "🌤️ *Weather Service*\n\n" +
	"Usage: `/weather <city>`\n\n" +
	"Example: `/weather London`\n\n" +
	"_Coming soon with real weather data!_ ✨"

const msgReminderUsage = "⏰ *Reminder Service*\n\n" +
	"Usage: `/reminder <minutes> <message>`\n\n" +
	"Examples:\n" +
	"• `/reminder 5 Check the oven`\n" +
	"• `/reminder 30 Call mom`\n" +
	"• `/reminder 60 Take a break`"

var diceFaces = [6]string{"⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

const rollPlaceholder = "🎲 Rolling dice"

func welcomeText(name string) string {
	return fmt.Sprintf(msgWelcome, format.MD(name))
}

func aboutText(version string) string {
	return fmt.Sprintf(msgAbout, format.MD(version))
}

func rollText(n int) string {
	text := fmt.Sprintf("%s *You rolled %d!* ", diceFaces[n-1], n)
	switch n {
	case 6:
		return text + "🎉\n✨ Perfect! Maximum score!"
	case 1:
		return text + "😅\nEveryone needs luck sometimes!"
	default:
		return text + "👍\nNice roll!"
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func guessWinText(secret, attempts int) string {
	return fmt.Sprintf("🎉 *CONGRATULATIONS!* 🎉\n\n"+
		"You guessed it! The number was *%d*!\n"+
		"You won in %d attempt%s! 🏆\n\n"+
		"Play again with /game!", secret, attempts, plural(attempts))
}

func guessLossText(secret int) string {
	return fmt.Sprintf("😅 *Game Over!*\n\nThe number was *%d*. Try again with /game!", secret)
}

func guessHintText(higher bool, remaining int) string {
	dir := "lower! 📉"
	if higher {
		dir = "higher! 📈"
	}
	return fmt.Sprintf("❌ Try %s\nAttempts remaining: *%d* 🎯", dir, remaining)
}

func quizPromptText(q content.QuizQuestion) string {
	return "🧠 *Quick Quiz!*\n\n" + format.MD(q.Prompt)
}

func quizCorrectText(q content.QuizQuestion) string {
	return fmt.Sprintf("🎉 *Correct!* 🎉\n\n%s\n\nWell done! 🏆", format.MD(q.Explanation))
}

func quizWrongText(q content.QuizQuestion) string {
	return fmt.Sprintf("❌ *Not quite!*\n\nThe correct answer was: *%s*\n\n%s\n\nTry another question! 💪",
		format.MD(q.CorrectOption()), format.MD(q.Explanation))
}

func jokeText(joke string) string {
	return "😄 *Here's a joke for you:*\n\n" + format.MD(joke)
}

func factText(fact string) string {
	return "🧠 *Amazing Fact:*\n\n" + format.MD(fact)
}

func animalText(a content.Animal) string {
	return fmt.Sprintf("%s *Your cute animal: %s!*\n\n💕 Isn't it adorable?", a.Emoji, format.MD(a.Name))
}

func quoteText(q content.Quote) string {
	return fmt.Sprintf("✨ *Daily Inspiration* ✨\n\n_\"%s\"_\n\n— *%s*\n\n🌟 Have an amazing day! 🌟",
		format.MD(q.Text), format.MD(q.Author))
}

func mathResultText(expr, result string) string {
	return fmt.Sprintf("🧮 *Math Result:*\n\n`%s = %s`", expr, result)
}

func inlineMathText(expr, result string) string {
	return fmt.Sprintf("🧮 %s = *%s*", format.MD(expr), result)
}

func weatherText(city string) string {
	return fmt.Sprintf("🌤️ *Weather for %s*\n\n"+
		"Weather service is being set up! 🔧\n"+
		"Get a free API key from openweathermap.org to enable this feature.\n\n"+
		"_Coming soon with real weather data!_ ☀️", format.MD(city))
}

func reminderSetText(minutes int, text string) string {
	return fmt.Sprintf("⏰ *Reminder Set!*\n\nI'll remind you in *%d minute%s*:\n📝 _%s_",
		minutes, plural(minutes), format.MD(text))
}

func reminderAlertText(text string) string {
	return fmt.Sprintf("🔔 *REMINDER ALERT!* 🔔\n\n⏰ You asked me to remind you:\n📝 *%s*\n\nHope this helps! ✨",
		format.MD(text))
}

func statsText(p users.Profile) string {
	return fmt.Sprintf("📊 *Your Bot Statistics* 📊\n\n"+
		"👤 *Name:* %s\n"+
		"📅 *Joined:* %s\n"+
		"🎯 *Commands Used:* %d\n"+
		"🏆 *Status:* %s\n\n"+
		"Thanks for using the bot! 🎉",
		format.MD(p.Name), p.JoinedAt.Format("January 02, 2006"), p.Commands, p.Tier())
}
