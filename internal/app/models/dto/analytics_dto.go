package dto

// CourseStatsResponse aggregates enrollment numbers for one course.
type CourseStatsResponse struct {
	CourseID          int64   `json:"courseId"`
	Title             string  `json:"title"`
	Enrollments       int64   `json:"enrollments"`
	ActiveStudents    int64   `json:"activeStudents"`
	Completed         int64   `json:"completed"`
	CompletionPercent float64 `json:"completionPercent"` // 0..100, averaged across enrollments
}

// PlatformStatsResponse is the admin dashboard headline block.
type PlatformStatsResponse struct {
	TotalCourses      int64 `json:"totalCourses"`
	PublishedCourses  int64 `json:"publishedCourses"`
	TotalTutors       int64 `json:"totalTutors"`
	TotalStudents     int64 `json:"totalStudents"`
	TotalEnrollments  int64 `json:"totalEnrollments"`
	RecentEnrollments int64 `json:"recentEnrollments"` // last 30 days
}

// TutorStatsResponse is the tutor dashboard headline block.
type TutorStatsResponse struct {
	TutorID          int64                 `json:"tutorId"`
	TotalCourses     int64                 `json:"totalCourses"`
	PublishedCourses int64                 `json:"publishedCourses"`
	TotalEnrollments int64                 `json:"totalEnrollments"`
	Courses          []CourseStatsResponse `json:"courses"`
}
