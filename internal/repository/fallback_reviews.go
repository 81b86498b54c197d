package repository

import "github.com/sketchfolio/backend/internal/model"

var fallbackReviews = []model.Review{
	{
		ID:       "1",
		Name:     "Dwipshikha Lodh",
		Email:    "lodhdwipshikha@gmail.com",
		ImageURL: "https://firebasestorage.googleapis.com/v0/b/the-digital-diary.appspot.com/o/portfolio-images%2F16989105311196.jfif%3Ftoken%3Db0dfe73b-f629-4ba5-9a05-0022e89bc1a0",
		Text:     "Habib has an in-depth knowledge of the technologies he has mentioned here which also gets reflects through his work for sure & his work always reflects the passion he has in the field of development.",
		Rating:   5,
	},
	{
		ID:       "2",
		Name:     "Chinmoy Kumar Swain",
		Email:    "chinmoy@omnisiv.com",
		ImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face",
		Text:     "Habib has an in-depth understanding of web development and has a stronghold in design and aesthetics, which makes him one of the finest web developer I have worked with. Apart from his excellent tech skills, his determination and creativity is something to admire.",
		Rating:   5,
	},
	{
		ID:       "3",
		Name:     "Ashadul Islam",
		Email:    "ashadulmjh@gmail.com",
		ImageURL: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=150&h=150&fit=crop&crop=face",
		Text:     "Habib's portfolio is an absolute marvel! It presents a captivating collection of projects that highlights his exceptional skills and creativity. The design is visually stunning, capturing attention and leaving a lasting impression. A true testament to Habib's talent and expertise.",
		Rating:   4,
	},
	{
		ID:       "4",
		Name:     "Sarah Johnson",
		Email:    "sarah.j@techcorp.com",
		ImageURL: "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=150&h=150&fit=crop&crop=face",
		Text:     "Working with Habib was an absolute pleasure. His attention to detail and ability to translate complex requirements into elegant solutions is remarkable. The project was delivered on time and exceeded our expectations.",
		Rating:   5,
	},
	{
		ID:       "5",
		Name:     "Michael Chen",
		Email:    "mchen@startup.io",
		ImageURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
		Text:     "Habib brought our vision to life with incredible precision. His expertise in React and Next.js helped us build a scalable platform that our users love. Highly recommended for any web development project.",
		Rating:   5,
	},
	{
		ID:       "6",
		Name:     "Emily Rodriguez",
		Email:    "emily.r@designstudio.com",
		ImageURL: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&h=150&fit=crop&crop=face",
		Text:     "The mobile app Habib developed for us is fantastic. The user interface is intuitive and the performance is excellent. His knowledge of React Native really shows in the final product.",
		Rating:   4,
	},
	{
		ID:       "7",
		Name:     "David Kumar",
		Email:    "david.k@enterprise.com",
		ImageURL: "https://images.unsplash.com/photo-1560250097-0b93528c311a?w=150&h=150&fit=crop&crop=face",
		Text:     "Professional, reliable, and skilled. Habib delivered a complex e-commerce solution that handles our high traffic seamlessly. His code quality and documentation are top-notch.",
		Rating:   5,
	},
	{
		ID:       "8",
		Name:     "Lisa Thompson",
		Email:    "lisa.t@agency.com",
		ImageURL: "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=150&h=150&fit=crop&crop=face",
		Text:     "Great communication throughout the project. Habib understood our requirements perfectly and provided valuable suggestions that improved the final outcome. Will definitely work with him again.",
		Rating:   4,
	},
	{
		ID:       "9",
		Name:     "James Wilson",
		Email:    "james.w@fintech.com",
		ImageURL: "https://images.unsplash.com/photo-1519244703995-f4e0f30006d5?w=150&h=150&fit=crop&crop=face",
		Text:     "Exceptional work on our fintech platform. Habib implemented complex financial calculations and security features with expertise. The application is robust and user-friendly.",
		Rating:   5,
	},
}

// FallbackReviews returns fresh copies of the built-in testimonials in their
// fixed order, truncated to limit when limit > 0.
func FallbackReviews(limit int) []*model.Review {
	n := len(fallbackReviews)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*model.Review, n)
	for i := range out {
		rev := fallbackReviews[i]
		rev.Status = model.ModerationApproved
		out[i] = &rev
	}
	return out
}
