package in_memory

import "clearedforcloud/storage/models"

var seedPosts = []models.Post{
	{
		Id:       "1",
		Title:    "Welcome to Cleared for Cloud!",
		Date:     "2024-06-18",
		Category: "General",
		Image:    "/firstblog.png",
		Body: `There's something deeply satisfying about building systems that solve real problems—especially when those systems are scalable, secure, and entirely virtual. That's what drew me to cloud computing.

This blog is my personal platform to document my cloud journey: the lessons I'm learning, the projects I'm building, and the tools and technologies I'm using along the way. I created it not only to track my own progress, but to contribute to the larger community of learners, builders, and professionals who are also figuring things out one service at a time.
Right now, I'm focused on mastering the AWS ecosystem—Lambda, API Gateway, DynamoDB, Cognito, S3, and more. I'm using tools like the Serverless Framework and Terraform to automate infrastructure and build applications the way modern cloud-native teams do it. As I go, I'll be writing up the technical breakdowns, deployment strategies, architecture decisions, and hard lessons that come with hands-on learning.
You won't find generic cloud theory here. This blog will be project-driven, code-backed, and focused on practical implementation. Whether I'm building an event booking system, a portfolio app, or securing a serverless API, I'll explain the what, why, and how.
If you're someone who's learning cloud, switching careers, or just curious how real-world cloud solutions are built—this blog is for you. Thanks for reading, and stay tuned.

— Andrew`,
	},
	{
		Id:       "2",
		Title:    "LINUX CLI Bootcamp Day 1",
		Date:     "2024-06-20",
		Category: "Learning",
		Image:    "/Linux_Blog_Post.png",
		Body:     "Today I started my Linux CLI bootcamp course. I created a Ubuntu EC2 instance with a pem key allowing me to SSH into the instance. I created a .bat file that I placed on the desktop so all I have to do is click the file and a new windows command prompt will open and directly connect me to the server. The sudo apt install ncal didn't work so I had to use sudo apt udate to update the apt package lists. It worked after applying the update and running sudo apt install ncal.",
	},
}

// SeedPosts returns a fresh copy of the built-in posts, newest first.
func SeedPosts() []models.Post {
	posts := make([]models.Post, len(seedPosts))
	copy(posts, seedPosts)
	models.SortNewestFirst(posts)
	return posts
}
