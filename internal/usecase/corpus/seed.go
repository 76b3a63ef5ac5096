package corpus

import "github.com/gradlink/profmatch/internal/domain"

// SeedProfiles returns the built-in professor set used when no complete
// profiles exist yet, so matching works on a fresh deployment.
func SeedProfiles() []domain.Profile {
	profiles := []domain.Profile{
		{
			ID:         "seed_prof_1",
			Name:       "TS. Nguyễn Văn A",
			Title:      "Phó Giáo sư",
			Department: "Khoa Công nghệ Thông tin",
			Bio:        "Chuyên gia về AI và Machine Learning với hơn 15 năm kinh nghiệm. Nghiên cứu về NLP và Computer Vision.",
			ResearchInterests: []string{
				"Xử lý ngôn ngữ tự nhiên", "Computer Vision", "Hệ thống khuyến nghị",
			},
			ExpertiseAreas: []string{
				"Trí tuệ nhân tạo", "Machine Learning", "Deep Learning",
			},
			ContactEmail: "nguyenvana@university.edu.vn",
		},
		{
			ID:         "seed_prof_2",
			Name:       "TS. Trần Thị B",
			Title:      "Giảng viên chính",
			Department: "Khoa Kinh tế",
			Bio:        "Chuyên gia về kinh tế học ứng dụng và phân tích dữ liệu. Nghiên cứu về chính sách kinh tế và phát triển.",
			ResearchInterests: []string{
				"Kinh tế lượng", "Phân tích chính sách", "Kinh tế phát triển",
			},
			ExpertiseAreas: []string{
				"Kinh tế học ứng dụng", "Phân tích dữ liệu kinh tế",
			},
			ContactEmail: "tranthib@university.edu.vn",
		},
		{
			ID:         "seed_prof_3",
			Name:       "TS. Lê Văn C",
			Title:      "Phó Giáo sư",
			Department: "Khoa Sinh học",
			Bio:        "Chuyên gia về sinh học phân tử và di truyền học. Nghiên cứu về genomics và công nghệ sinh học.",
			ResearchInterests: []string{
				"Genomics", "Proteomics", "Sinh học tính toán",
			},
			ExpertiseAreas: []string{
				"Sinh học phân tử", "Di truyền học", "Công nghệ sinh học",
			},
			ContactEmail: "levanc@university.edu.vn",
		},
		{
			ID:         "seed_prof_4",
			Name:       "TS. Phạm Thị D",
			Title:      "Giảng viên",
			Department: "Khoa Văn học",
			Bio:        "Chuyên gia về văn học Việt Nam và văn học so sánh. Nghiên cứu về văn học đương đại và văn hóa.",
			ResearchInterests: []string{
				"Văn học đương đại", "Văn học dân gian", "Văn học và văn hóa",
			},
			ExpertiseAreas: []string{
				"Văn học Việt Nam", "Văn học so sánh", "Phê bình văn học",
			},
			ContactEmail: "phamthid@university.edu.vn",
		},
		{
			ID:         "seed_prof_5",
			Name:       "TS. Hoàng Văn E",
			Title:      "Phó Giáo sư",
			Department: "Khoa Toán học",
			Bio:        "Chuyên gia về toán ứng dụng và thống kê. Nghiên cứu về toán tối ưu và phân tích dữ liệu.",
			ResearchInterests: []string{
				"Toán tối ưu", "Thống kê Bayes", "Phân tích dữ liệu lớn",
			},
			ExpertiseAreas: []string{
				"Toán ứng dụng", "Thống kê", "Phân tích số liệu",
			},
			ContactEmail: "hoangvane@university.edu.vn",
		},
		{
			ID:         "seed_prof_6",
			Name:       "TS. Võ Thị F",
			Title:      "Giảng viên chính",
			Department: "Khoa Hóa học",
			Bio:        "Chuyên gia về hóa học hữu cơ và vật liệu. Nghiên cứu về vật liệu nano và hóa học xanh.",
			ResearchInterests: []string{
				"Vật liệu nano", "Hóa học xanh", "Phát triển thuốc",
			},
			ExpertiseAreas: []string{
				"Hóa học hữu cơ", "Hóa học vật liệu", "Hóa học tính toán",
			},
			ContactEmail: "vothif@university.edu.vn",
		},
	}

	for i := range profiles {
		profiles[i].ProfileText = profiles[i].RenderText()
		profiles[i].IsComplete = true
	}
	return profiles
}
