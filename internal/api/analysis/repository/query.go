package analysisRepository

const (
	queryCreateSession = `
		INSERT INTO sessions (id, class_name, image_name, stored_image, status, created_at)
		VALUES (:id, :class_name, :image_name, :stored_image, :status, :created_at)
	`

	queryUpdateSessionResult = `
		UPDATE sessions
		SET status = :status,
			annotated_name = :annotated_name,
			statistics = :statistics,
			completed_at = :completed_at
		WHERE id = :id
	`

	queryUpdateSessionStatus = `
		UPDATE sessions
		SET status = :status
		WHERE id = :id
	`

	queryGetSessionByID = `
		SELECT id, class_name, image_name, stored_image, annotated_name, status, statistics, created_at, completed_at
		FROM sessions
		WHERE id = :id
	`

	queryGetRecentSessions = `
		SELECT id, class_name, image_name, stored_image, annotated_name, status, statistics, created_at, completed_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT :limit
	`

	queryListSessionsSince = `
		SELECT id, class_name, image_name, stored_image, annotated_name, status, statistics, created_at, completed_at
		FROM sessions
		WHERE created_at >= :since
		ORDER BY created_at ASC
	`

	queryDeleteSession = `
		DELETE FROM sessions
		WHERE id = :id
	`

	queryInsertFace = `
		INSERT INTO session_faces (session_id, face_id, x, y, width, height, detection_confidence,
			emotion, emotion_score, engagement_level, all_emotions, error_detail)
		VALUES (:session_id, :face_id, :x, :y, :width, :height, :detection_confidence,
			:emotion, :emotion_score, :engagement_level, :all_emotions, :error_detail)
	`

	queryGetFacesBySession = `
		SELECT session_id, face_id, x, y, width, height, detection_confidence,
			emotion, emotion_score, engagement_level, all_emotions, error_detail
		FROM session_faces
		WHERE session_id = :session_id
		ORDER BY face_id ASC
	`
)
